package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local serves locations from the local filesystem.
type Local struct{}

// Open implements Storage.
func (l *Local) Open(_ context.Context, location string) (io.ReadCloser, error) {
	return os.Open(localPath(location))
}

// Create implements Storage. Missing parent directories are created.
func (l *Local) Create(_ context.Context, location string) (io.WriteCloser, error) {
	path := localPath(location)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &localWriter{File: f}, nil
}

type localWriter struct {
	*os.File
}

// CloseWithError removes the partially written file.
func (w *localWriter) CloseWithError(error) error {
	closeErr := w.File.Close()
	if err := os.Remove(w.Name()); err != nil {
		return err
	}
	return closeErr
}

func localPath(location string) string {
	return strings.TrimPrefix(location, "file://")
}
