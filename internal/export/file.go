package export

import (
	"context"
	"os"
	"path/filepath"
)

// FileExporter writes files into a local directory.
type FileExporter struct {
	Dir string
}

func NewFileExporter(dir string) *FileExporter {
	if dir == "" {
		dir = "."
	}
	return &FileExporter{Dir: dir}
}

func (e *FileExporter) Put(ctx context.Context, file File) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.Dir, file.Name)
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
