package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/specialistvlad/recipegrid/internal/fileref"
)

// ErrAlgorithmNotFound is returned by Lookup for unknown (category, algorithm) pairs.
var ErrAlgorithmNotFound = errors.New("algorithm not found")

// Algorithm is a constructed, ready-to-run algorithm instance.
type Algorithm interface {
	Run(ctx context.Context, inputs ...any) (any, error)
}

// AlgorithmFunc adapts a plain function to the Algorithm interface.
type AlgorithmFunc func(ctx context.Context, inputs ...any) (any, error)

// Run implements Algorithm.
func (f AlgorithmFunc) Run(ctx context.Context, inputs ...any) (any, error) {
	return f(ctx, inputs...)
}

// Options are the named constructor options of an algorithm, already bound
// to their declared types.
type Options map[string]any

// Module is the interface that all algorithm modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Key identifies an algorithm by category and name.
type Key struct {
	Category string
	Name     string
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.Category + "." + k.Name
}

// Registry holds the registered algorithms and codecs for a single application instance.
type Registry struct {
	algorithms map[Key]*RegisteredAlgorithm
	codecs     *fileref.Codecs
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		algorithms: make(map[Key]*RegisteredAlgorithm),
		codecs:     fileref.NewCodecs(),
	}
}

// RegisterAlgorithm registers an implementation under (category, name).
func (r *Registry) RegisterAlgorithm(category, name string, a *RegisteredAlgorithm) {
	key := Key{Category: category, Name: name}
	if _, exists := r.algorithms[key]; exists {
		panic(fmt.Sprintf("algorithm '%s' already registered", key))
	}
	slog.Debug("Registering algorithm.", "category", category, "name", name)
	r.algorithms[key] = a
}

// RegisterLoader registers the decoder used for file references bound to type t.
func (r *Registry) RegisterLoader(t reflect.Type, fn fileref.LoadFunc) {
	slog.Debug("Registering loader.", "type", t.String())
	r.codecs.RegisterLoader(t, fn)
}

// RegisterWriter registers the serializer used for saved results of type t.
func (r *Registry) RegisterWriter(t reflect.Type, fn fileref.SaveFunc) {
	slog.Debug("Registering writer.", "type", t.String())
	r.codecs.RegisterWriter(t, fn)
}

// Codecs returns the loader and writer registries.
func (r *Registry) Codecs() *fileref.Codecs {
	return r.codecs
}

// Lookup resolves the implementation registered under (category, name).
func (r *Registry) Lookup(category, name string) (*RegisteredAlgorithm, error) {
	a, ok := r.algorithms[Key{Category: category, Name: name}]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrAlgorithmNotFound, category, name)
	}
	return a, nil
}

// Keys returns all registered algorithm keys, sorted.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.algorithms))
	for k := range r.algorithms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
