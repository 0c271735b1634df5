package registry

import (
	"fmt"
	"reflect"
)

// Param declares one named option or positional input of an algorithm.
// A nil Type means the parameter is untyped: raw values pass through in their
// natural Go form and file references cannot be decoded for it.
type Param struct {
	Name     string
	Type     reflect.Type
	Required bool
}

// ParamOf declares an optional parameter of type T.
func ParamOf[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[T]()}
}

// RequiredParamOf declares a required parameter of type T.
func RequiredParamOf[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[T](), Required: true}
}

// RegisteredAlgorithm holds the compiled Go parts of one algorithm
// implementation and the schema of its constructor and Run method.
type RegisteredAlgorithm struct {
	Description string
	// Options are the named constructor options.
	Options []Param
	// Inputs are the positional Run inputs, in order.
	Inputs []Param
	// New instantiates the algorithm from options bound to their declared types.
	New func(opts Options) (Algorithm, error)
}

// Option returns the declared option called name.
func (a *RegisteredAlgorithm) Option(name string) (Param, bool) {
	for _, p := range a.Options {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Input returns the declared positional input at index i.
func (a *RegisteredAlgorithm) Input(i int) (Param, bool) {
	if i < 0 || i >= len(a.Inputs) {
		return Param{}, false
	}
	return a.Inputs[i], true
}

// OptionValue reads option name from opts as a T, returning def when absent.
func OptionValue[T any](opts Options, name string, def T) (T, error) {
	raw, ok := opts[name]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := raw.(T)
	if !ok {
		return def, fmt.Errorf("option %q: expected %s, got %T", name, reflect.TypeFor[T](), raw)
	}
	return v, nil
}
