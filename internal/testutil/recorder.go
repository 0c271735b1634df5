package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/recipegrid/internal/registry"
)

// ErrBoom is returned by the test.Fail algorithm.
var ErrBoom = errors.New("boom")

// Recorder is a module of fixture algorithms in the "test" category. Every
// algorithm takes an optional string option "id"; each run is recorded under
// that id so tests can assert which tasks ran, in what order, and how many ran
// at the same time.
//
//	test.Const   value=<float64>      returns value
//	test.Add     (a, b float64)       returns a+b
//	test.Pass    (x)                  returns x unchanged
//	test.Fail    (x)                  fails with ErrBoom
//	test.Capture (any options)        returns the options it was built with
type Recorder struct {
	// Sleep is how long every run blocks before returning.
	Sleep time.Duration

	mu        sync.Mutex
	runs      []string
	active    int
	maxActive int
}

// NewRecorder creates a recorder whose algorithms return immediately.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Runs returns the ids of the runs so far, in completion order.
func (r *Recorder) Runs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.runs...)
}

// MaxConcurrent returns the highest number of runs that overlapped in time.
func (r *Recorder) MaxConcurrent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxActive
}

func (r *Recorder) track(ctx context.Context, id string, fn func() (any, error)) (any, error) {
	r.mu.Lock()
	r.active++
	if r.active > r.maxActive {
		r.maxActive = r.active
	}
	r.mu.Unlock()

	if r.Sleep > 0 {
		select {
		case <-time.After(r.Sleep):
		case <-ctx.Done():
		}
	}
	out, err := fn()

	r.mu.Lock()
	r.active--
	r.runs = append(r.runs, id)
	r.mu.Unlock()
	return out, err
}

// Register implements registry.Module.
func (r *Recorder) Register(reg *registry.Registry) {
	idParam := registry.ParamOf[string]("id")

	build := func(run func(opts registry.Options, inputs []any) (any, error)) func(registry.Options) (registry.Algorithm, error) {
		return func(opts registry.Options) (registry.Algorithm, error) {
			id, err := registry.OptionValue(opts, "id", "")
			if err != nil {
				return nil, err
			}
			return registry.AlgorithmFunc(func(ctx context.Context, inputs ...any) (any, error) {
				return r.track(ctx, id, func() (any, error) { return run(opts, inputs) })
			}), nil
		}
	}

	reg.RegisterAlgorithm("test", "Const", &registry.RegisteredAlgorithm{
		Options: []registry.Param{idParam, registry.RequiredParamOf[float64]("value")},
		New: build(func(opts registry.Options, _ []any) (any, error) {
			return opts["value"], nil
		}),
	})

	reg.RegisterAlgorithm("test", "Add", &registry.RegisteredAlgorithm{
		Options: []registry.Param{idParam},
		Inputs:  []registry.Param{registry.ParamOf[float64]("a"), registry.ParamOf[float64]("b")},
		New: build(func(_ registry.Options, inputs []any) (any, error) {
			sum := 0.0
			for _, in := range inputs {
				sum += in.(float64)
			}
			return sum, nil
		}),
	})

	reg.RegisterAlgorithm("test", "Pass", &registry.RegisteredAlgorithm{
		Options: []registry.Param{idParam},
		Inputs:  []registry.Param{{Name: "x"}},
		New: build(func(_ registry.Options, inputs []any) (any, error) {
			if len(inputs) == 0 {
				return nil, nil
			}
			return inputs[0], nil
		}),
	})

	reg.RegisterAlgorithm("test", "Fail", &registry.RegisteredAlgorithm{
		Options: []registry.Param{idParam},
		Inputs:  []registry.Param{{Name: "x"}},
		New: build(func(registry.Options, []any) (any, error) {
			return nil, fmt.Errorf("fixture failure: %w", ErrBoom)
		}),
	})

	reg.RegisterAlgorithm("test", "Capture", &registry.RegisteredAlgorithm{
		Options: []registry.Param{idParam},
		New: build(func(opts registry.Options, _ []any) (any, error) {
			return opts, nil
		}),
	})
}
