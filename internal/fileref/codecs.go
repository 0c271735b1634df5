package fileref

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/storage"
)

var (
	// ErrNoLoader is returned when no loader is registered for a target type.
	ErrNoLoader = errors.New("no loader registered for type")
	// ErrNoWriter is returned when no writer is registered for a value's type.
	ErrNoWriter = errors.New("no writer registered for type")
)

// LoadFunc decodes the content of r into a value of the type it was registered for.
type LoadFunc func(ctx context.Context, r io.Reader) (any, error)

// SaveFunc serializes v, a value of the type it was registered for, into w.
type SaveFunc func(ctx context.Context, w io.Writer, v any) error

// Codecs holds the type→loader and type→writer registries.
type Codecs struct {
	mu      sync.RWMutex
	loaders map[reflect.Type]LoadFunc
	writers map[reflect.Type]SaveFunc
}

// NewCodecs returns empty registries.
func NewCodecs() *Codecs {
	return &Codecs{
		loaders: make(map[reflect.Type]LoadFunc),
		writers: make(map[reflect.Type]SaveFunc),
	}
}

// RegisterLoader registers fn as the decoder for values of type t.
func (c *Codecs) RegisterLoader(t reflect.Type, fn LoadFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.loaders[t]; exists {
		panic(fmt.Sprintf("loader for type '%s' already registered", t))
	}
	c.loaders[t] = fn
}

// RegisterWriter registers fn as the serializer for values of type t.
func (c *Codecs) RegisterWriter(t reflect.Type, fn SaveFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.writers[t]; exists {
		panic(fmt.Sprintf("writer for type '%s' already registered", t))
	}
	c.writers[t] = fn
}

// Loader resolves the loader for t.
func (c *Codecs) Loader(t reflect.Type) (LoadFunc, error) {
	if t == nil {
		return nil, fmt.Errorf("%w %s", ErrNoLoader, TypeName(t))
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.loaders[t]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoLoader, TypeName(t))
	}
	return fn, nil
}

// Writer resolves the writer for t.
func (c *Codecs) Writer(t reflect.Type) (SaveFunc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.writers[t]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoWriter, TypeName(t))
	}
	return fn, nil
}

// Load opens location in store and decodes it into a value of type t.
func (c *Codecs) Load(ctx context.Context, store storage.Storage, location string, t reflect.Type) (any, error) {
	fn, err := c.Loader(t)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Loading file reference.", "location", location, "type", t.String())
	rc, err := store.Open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", location, err)
	}
	defer rc.Close()

	v, err := fn(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q as %s: %w", location, t, err)
	}
	if got := reflect.TypeOf(v); got == nil || !got.AssignableTo(t) {
		return nil, fmt.Errorf("loader for %s returned %s", t, TypeName(got))
	}
	return v, nil
}

// Save resolves a writer by the concrete type of v and writes v to location.
func (c *Codecs) Save(ctx context.Context, store storage.Storage, v any, location string) error {
	fn, err := c.Writer(reflect.TypeOf(v))
	if err != nil {
		return err
	}

	w, err := store.Create(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", location, err)
	}
	if err := fn(ctx, w, v); err != nil {
		if abortErr := storage.Abort(w, err); abortErr != nil {
			ctxlog.FromContext(ctx).Warn("Failed to discard partial output.", "location", location, "error", abortErr)
		}
		return fmt.Errorf("failed to write %q: %w", location, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish %q: %w", location, err)
	}
	return nil
}
