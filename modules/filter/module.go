// Package filter provides element-wise algorithms in the "filter" category.
package filter

import (
	"context"
	"fmt"
	"math"

	"github.com/specialistvlad/recipegrid/internal/registry"
	"github.com/specialistvlad/recipegrid/modules/numeric"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Multiply scales a scalar by a constant factor.
type Multiply struct {
	Factor float64
}

// NewMultiply builds Multiply from its options.
func NewMultiply(opts registry.Options) (registry.Algorithm, error) {
	factor, err := registry.OptionValue(opts, "factor", 1.0)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("factor must be finite, got %v", factor)
	}
	return &Multiply{Factor: factor}, nil
}

// Run implements registry.Algorithm.
func (m *Multiply) Run(_ context.Context, inputs ...any) (any, error) {
	x, err := scalarInput(inputs)
	if err != nil {
		return nil, err
	}
	return x * m.Factor, nil
}

// Offset adds a constant to a scalar.
type Offset struct {
	Amount float64
}

// NewOffset builds Offset from its options.
func NewOffset(opts registry.Options) (registry.Algorithm, error) {
	amount, err := registry.OptionValue(opts, "amount", 0.0)
	if err != nil {
		return nil, err
	}
	return &Offset{Amount: amount}, nil
}

// Run implements registry.Algorithm.
func (o *Offset) Run(_ context.Context, inputs ...any) (any, error) {
	x, err := scalarInput(inputs)
	if err != nil {
		return nil, err
	}
	return x + o.Amount, nil
}

// Weight multiplies a series element-wise by a weights series of the same length.
type Weight struct {
	Weights numeric.Series
}

// NewWeight builds Weight from its options.
func NewWeight(opts registry.Options) (registry.Algorithm, error) {
	weights, err := registry.OptionValue[numeric.Series](opts, "weights", nil)
	if err != nil {
		return nil, err
	}
	return &Weight{Weights: weights}, nil
}

// Run implements registry.Algorithm.
func (w *Weight) Run(_ context.Context, inputs ...any) (any, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("expected 1 input, got %d", len(inputs))
	}
	s := inputs[0].(numeric.Series)
	if len(s) != len(w.Weights) {
		return nil, fmt.Errorf("series has %d samples but weights has %d", len(s), len(w.Weights))
	}
	out := make(numeric.Series, len(s))
	for i := range s {
		out[i] = s[i] * w.Weights[i]
	}
	return out, nil
}

func scalarInput(inputs []any) (float64, error) {
	if len(inputs) != 1 {
		return 0, fmt.Errorf("expected 1 input, got %d", len(inputs))
	}
	return inputs[0].(float64), nil
}

// Register registers the algorithms with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAlgorithm("filter", "Multiply", &registry.RegisteredAlgorithm{
		Description: "Multiplies a scalar by factor.",
		Options:     []registry.Param{registry.RequiredParamOf[float64]("factor")},
		Inputs:      []registry.Param{registry.ParamOf[float64]("x")},
		New:         NewMultiply,
	})
	r.RegisterAlgorithm("filter", "Offset", &registry.RegisteredAlgorithm{
		Description: "Adds amount to a scalar.",
		Options:     []registry.Param{registry.RequiredParamOf[float64]("amount")},
		Inputs:      []registry.Param{registry.ParamOf[float64]("x")},
		New:         NewOffset,
	})
	r.RegisterAlgorithm("filter", "Weight", &registry.RegisteredAlgorithm{
		Description: "Multiplies a series element-wise by weights.",
		Options:     []registry.Param{registry.RequiredParamOf[numeric.Series]("weights")},
		Inputs:      []registry.Param{registry.ParamOf[numeric.Series]("series")},
		New:         NewWeight,
	})
}
