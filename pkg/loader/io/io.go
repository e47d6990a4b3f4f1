package io

import (
	"context"
	"os"
	"sync"

	"github.com/OFFIS-RIT/symphony/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IOLoader loads documents directly from the local filesystem with caching.
type IOLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIOLoader creates a new filesystem-based document loader.
func NewIOLoader() *IOLoader {
	return &IOLoader{
		cache: make(map[string][]byte),
	}
}

// GetText reads the document from the filesystem. Results are cached.
func (l *IOLoader) GetText(ctx context.Context, doc loader.Document) ([]byte, error) {
	key := doc.CacheKey()

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		result, err := os.ReadFile(doc.Source)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
