package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/symphony/pkg/loader"
)

func TestIOLoader_CachesReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idea.txt")
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	l := NewIOLoader()
	doc := loader.Document{Source: path, Kind: loader.DocumentKindFile}
	got, err := l.GetText(context.Background(), doc)
	if err != nil || string(got) != "first" {
		t.Fatalf("GetText() = %q, %v", got, err)
	}

	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, _ = l.GetText(context.Background(), doc)
	if string(got) != "first" {
		t.Fatalf("expected cached content, got %q", got)
	}

	missing := loader.Document{Source: filepath.Join(t.TempDir(), "missing.txt"), Kind: loader.DocumentKindFile}
	if _, err := l.GetText(context.Background(), missing); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
