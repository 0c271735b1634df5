package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var (
	// ErrReadOnly is returned by backends that cannot be written to.
	ErrReadOnly = errors.New("storage location is read-only")
	// ErrUnsupportedScheme is returned when no backend handles a location's scheme.
	ErrUnsupportedScheme = errors.New("unsupported location scheme")
)

// Storage reads and writes whole objects addressed by a location string.
type Storage interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Create(ctx context.Context, location string) (io.WriteCloser, error)
}

// Aborter is implemented by writers that can discard a partially written
// object instead of committing it.
type Aborter interface {
	CloseWithError(err error) error
}

// Abort discards w after a failed write. Writers that are not Aborters are
// closed as usual.
func Abort(w io.WriteCloser, cause error) error {
	if a, ok := w.(Aborter); ok {
		return a.CloseWithError(cause)
	}
	return w.Close()
}

// Router dispatches locations to backends by scheme.
type Router struct {
	backends map[string]Storage
}

// NewRouter returns a Router that serves plain paths and file:// URLs from
// the local filesystem.
func NewRouter() *Router {
	local := &Local{}
	r := &Router{backends: make(map[string]Storage)}
	r.Handle("", local)
	r.Handle("file", local)
	return r
}

// Handle registers s for the given scheme, replacing any previous backend.
func (r *Router) Handle(scheme string, s Storage) {
	r.backends[strings.ToLower(scheme)] = s
}

// Open implements Storage.
func (r *Router) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	s, err := r.backendFor(location)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, location)
}

// Create implements Storage.
func (r *Router) Create(ctx context.Context, location string) (io.WriteCloser, error) {
	s, err := r.backendFor(location)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, location)
}

func (r *Router) backendFor(location string) (Storage, error) {
	scheme := Scheme(location)
	s, ok := r.backends[scheme]
	if !ok {
		return nil, fmt.Errorf("%w %q in %q", ErrUnsupportedScheme, scheme, location)
	}
	return s, nil
}

// Scheme returns the lower-cased URL scheme of location, or "" for plain paths.
func Scheme(location string) string {
	if !strings.Contains(location, "://") {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}
