// Package combine provides algorithms in the "combine" category, which merge
// two scalar results into one.
package combine

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/registry"
)

// ErrDivisionByZero is returned by Ratio when the denominator is zero.
var ErrDivisionByZero = errors.New("division by zero")

// Module implements the registry.Module interface for this package.
type Module struct{}

func binary(op func(a, b float64) (float64, error)) func(registry.Options) (registry.Algorithm, error) {
	return func(registry.Options) (registry.Algorithm, error) {
		return registry.AlgorithmFunc(func(_ context.Context, inputs ...any) (any, error) {
			if len(inputs) != 2 {
				return nil, fmt.Errorf("expected 2 inputs, got %d", len(inputs))
			}
			return op(inputs[0].(float64), inputs[1].(float64))
		}), nil
	}
}

// Register registers the algorithms with the engine.
func (m *Module) Register(r *registry.Registry) {
	inputs := []registry.Param{registry.ParamOf[float64]("a"), registry.ParamOf[float64]("b")}

	r.RegisterAlgorithm("combine", "Add", &registry.RegisteredAlgorithm{
		Description: "Adds a and b.",
		Inputs:      inputs,
		New: binary(func(a, b float64) (float64, error) {
			return a + b, nil
		}),
	})
	r.RegisterAlgorithm("combine", "Ratio", &registry.RegisteredAlgorithm{
		Description: "Divides a by b.",
		Inputs:      inputs,
		New: binary(func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a / b, nil
		}),
	})
}
