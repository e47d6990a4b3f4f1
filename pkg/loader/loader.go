// Package loader reads the supporting document a user attaches to an idea.
// Local files must be plain text or markdown; http(s) sources are fetched and
// reduced to their readable article text.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DocumentKind tells how a document source is read.
type DocumentKind string

const (
	DocumentKindFile DocumentKind = "file"
	DocumentKindWeb  DocumentKind = "web"
)

// ErrUnsupportedFile is returned for local files that are not .txt or .md.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ErrNotText is returned when a document does not decode as UTF-8 text.
var ErrNotText = errors.New("document is not valid utf-8 text")

// SupportedExtensions lists the accepted local file extensions.
var SupportedExtensions = []string{".txt", ".md", ".markdown"}

// Document is a supporting document source.
type Document struct {
	Source string
	Kind   DocumentKind
}

// NewDocument classifies source as a web or file document.
func NewDocument(source string) (Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Document{}, errors.New("empty document source")
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return Document{Source: source, Kind: DocumentKindWeb}, nil
	}

	ext := strings.ToLower(filepath.Ext(source))
	for _, s := range SupportedExtensions {
		if ext == s {
			return Document{Source: source, Kind: DocumentKindFile}, nil
		}
	}
	return Document{}, fmt.Errorf("%w %q, expected one of %s", ErrUnsupportedFile, ext, strings.Join(SupportedExtensions, ", "))
}

// CacheKey identifies a document in loader caches.
func (d Document) CacheKey() string {
	return string(d.Kind) + ":" + d.Source
}

// DocumentLoader reads the text of a document.
type DocumentLoader interface {
	GetText(ctx context.Context, doc Document) ([]byte, error)
}

// Loaders dispatches documents to the loader for their kind.
type Loaders struct {
	File DocumentLoader
	Web  DocumentLoader
}

// Load resolves source and returns its text.
func (l Loaders) Load(ctx context.Context, source string) (string, error) {
	doc, err := NewDocument(source)
	if err != nil {
		return "", err
	}

	var dl DocumentLoader
	switch doc.Kind {
	case DocumentKindWeb:
		dl = l.Web
	default:
		dl = l.File
	}
	if dl == nil {
		return "", fmt.Errorf("no loader for %s documents", doc.Kind)
	}

	text, err := dl.GetText(ctx, doc)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(text) {
		return "", ErrNotText
	}
	return strings.TrimSpace(string(text)), nil
}
