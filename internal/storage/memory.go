package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"sync"
)

// Memory keeps objects in process memory, keyed by their full location.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Put stores data at location.
func (m *Memory) Put(location string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[location] = bytes.Clone(data)
}

// Get returns a copy of the data stored at location.
func (m *Memory) Get(location string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[location]
	return bytes.Clone(data), ok
}

// Open implements Storage.
func (m *Memory) Open(_ context.Context, location string) (io.ReadCloser, error) {
	data, ok := m.Get(location)
	if !ok {
		return nil, fmt.Errorf("open %s: %w", location, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create implements Storage. The object becomes visible when the writer is closed.
func (m *Memory) Create(_ context.Context, location string) (io.WriteCloser, error) {
	return &memWriter{store: m, location: location}, nil
}

type memWriter struct {
	store    *Memory
	location string
	buf      bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	w.store.Put(w.location, w.buf.Bytes())
	return nil
}

// CloseWithError drops the buffered object without storing it.
func (w *memWriter) CloseWithError(error) error {
	w.buf.Reset()
	return nil
}
