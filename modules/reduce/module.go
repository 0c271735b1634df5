// Package reduce provides algorithms in the "reduce" category, collapsing a
// series into a single scalar.
package reduce

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/registry"
	"github.com/specialistvlad/recipegrid/modules/numeric"
)

// ErrEmptySeries is returned when reducing a series with no samples.
var ErrEmptySeries = errors.New("series is empty")

// Module implements the registry.Module interface for this package.
type Module struct{}

type reducer func(s numeric.Series) (float64, error)

func sum(s numeric.Series) (float64, error) {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total, nil
}

func mean(s numeric.Series) (float64, error) {
	if len(s) == 0 {
		return 0, ErrEmptySeries
	}
	total, _ := sum(s)
	return total / float64(len(s)), nil
}

func maximum(s numeric.Series) (float64, error) {
	if len(s) == 0 {
		return 0, ErrEmptySeries
	}
	m := s[0]
	for _, v := range s[1:] {
		m = max(m, v)
	}
	return m, nil
}

func (f reducer) algorithm(registry.Options) (registry.Algorithm, error) {
	return registry.AlgorithmFunc(func(_ context.Context, inputs ...any) (any, error) {
		if len(inputs) != 1 {
			return nil, fmt.Errorf("expected 1 input, got %d", len(inputs))
		}
		return f(inputs[0].(numeric.Series))
	}), nil
}

// Register registers the algorithms with the engine.
func (m *Module) Register(r *registry.Registry) {
	for name, fn := range map[string]reducer{"Sum": sum, "Mean": mean, "Max": maximum} {
		r.RegisterAlgorithm("reduce", name, &registry.RegisteredAlgorithm{
			Inputs: []registry.Param{registry.ParamOf[numeric.Series]("series")},
			New:    fn.algorithm,
		})
	}
}
