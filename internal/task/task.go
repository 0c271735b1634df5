package task

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/fileref"
	"github.com/specialistvlad/recipegrid/internal/registry"
	"github.com/specialistvlad/recipegrid/internal/storage"
	"github.com/zclconf/go-cty/cty"
)

// Definition describes a Task before it is constructed.
//
// Inputs and Options may hold raw values (Go values or cty.Value literals) and
// fileref.Reference values. Inputs may additionally hold *Task references to
// earlier Tasks.
type Definition struct {
	Name      string
	Category  string
	Algorithm string
	Inputs    []any
	Options   map[string]any
}

// Env is what a Task needs from its surroundings to be constructed and run.
type Env struct {
	Registry *registry.Registry
	Storage  storage.Storage
}

// Results maps completed Tasks to their results.
type Results map[*Task]any

// Task is one bound invocation of an algorithm. It is immutable once built.
type Task struct {
	id        uuid.UUID
	name      string
	category  string
	algorithm string

	rawInputs  []any
	rawOptions map[string]any

	schema   *registry.RegisteredAlgorithm
	inputs   []any
	instance registry.Algorithm
	warnings []*ConstructorExtraParameterWarning
}

// New resolves the algorithm, binds options and inputs, and instantiates the
// algorithm. File references among the options are decoded before New returns.
func New(ctx context.Context, env Env, def Definition) (*Task, error) {
	t := &Task{
		id:         uuid.New(),
		name:       def.Name,
		category:   def.Category,
		algorithm:  def.Algorithm,
		rawInputs:  def.Inputs,
		rawOptions: def.Options,
	}
	ctx = ctxlog.With(ctx, "task", t.Label())
	logger := ctxlog.FromContext(ctx)

	schema, err := env.Registry.Lookup(def.Category, def.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", t, err)
	}
	t.schema = schema

	opts, err := t.bindOptions(ctx, env)
	if err != nil {
		return nil, err
	}

	t.instance, err = instantiate(schema, opts)
	if err != nil {
		return nil, &ConstructorError{Task: t.String(), Err: err}
	}

	if err := t.bindInputs(env); err != nil {
		return nil, err
	}

	logger.Debug("Task constructed.", "id", t.id.String(), "inputs", len(t.inputs), "dependencies", len(t.Dependencies()))
	return t, nil
}

func (t *Task) bindOptions(ctx context.Context, env Env) (registry.Options, error) {
	logger := ctxlog.FromContext(ctx)
	codecs := env.Registry.Codecs()
	opts := make(registry.Options, len(t.rawOptions))

	for _, name := range sortedKeys(t.rawOptions) {
		raw := t.rawOptions[name]
		param, declared := t.schema.Option(name)

		switch v := raw.(type) {
		case fileref.Reference:
			if !declared || param.Type == nil {
				w := &ConstructorExtraParameterWarning{Task: t.String(), Option: name}
				logger.Warn(w.Error(), "option", name)
				t.warnings = append(t.warnings, w)
				opts[name] = v
				continue
			}
			if _, err := codecs.Loader(param.Type); err != nil {
				return nil, &TypeInferenceError{Task: t.String(), Param: name, Err: err}
			}
			loaded, err := fileref.Bind(v, param.Type, codecs, env.Storage).Load(ctx)
			if err != nil {
				return nil, &ConstructorError{Task: t.String(), Err: fmt.Errorf("option %q: %w", name, err)}
			}
			opts[name] = loaded

		case *Task:
			return nil, &ConstructorError{Task: t.String(), Err: fmt.Errorf("option %q cannot reference another task", name)}

		default:
			var bound any
			var err error
			if declared {
				bound, err = bindRaw(v, param.Type)
			} else {
				bound, err = natural(v)
			}
			if err != nil {
				return nil, &ConstructorError{Task: t.String(), Err: fmt.Errorf("option %q: %w", name, err)}
			}
			opts[name] = bound
		}
	}

	for _, p := range t.schema.Options {
		if _, ok := opts[p.Name]; p.Required && !ok {
			return nil, &ConstructorError{Task: t.String(), Err: fmt.Errorf("missing required option %q", p.Name)}
		}
	}
	return opts, nil
}

func (t *Task) bindInputs(env Env) error {
	if len(t.rawInputs) > len(t.schema.Inputs) {
		return &TypeInferenceError{
			Task:  t.String(),
			Param: fmt.Sprintf("#%d", len(t.schema.Inputs)),
			Err:   fmt.Errorf("run accepts %d inputs, got %d", len(t.schema.Inputs), len(t.rawInputs)),
		}
	}

	t.inputs = make([]any, len(t.rawInputs))
	for i, raw := range t.rawInputs {
		param := t.schema.Inputs[i]
		switch v := raw.(type) {
		case *Task:
			t.inputs[i] = v
		case fileref.Reference:
			t.inputs[i] = fileref.Bind(v, param.Type, env.Registry.Codecs(), env.Storage)
		default:
			bound, err := bindRaw(v, param.Type)
			if err != nil {
				return &TypeInferenceError{Task: t.String(), Param: param.Name, Err: err}
			}
			t.inputs[i] = bound
		}
	}
	return nil
}

func instantiate(schema *registry.RegisteredAlgorithm, opts registry.Options) (a registry.Algorithm, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	if schema.New == nil {
		return nil, errors.New("algorithm has no constructor")
	}
	return schema.New(opts)
}

// Run resolves the inputs against previous results, decoding file references
// now, and invokes the algorithm.
func (t *Task) Run(ctx context.Context, previous Results) (any, error) {
	ctx = ctxlog.With(ctx, "task", t.Label())
	logger := ctxlog.FromContext(ctx)

	args := make([]any, len(t.inputs))
	for i, in := range t.inputs {
		param := t.schema.Inputs[i]
		switch v := in.(type) {
		case *Task:
			result, ok := previous[v]
			if !ok {
				return nil, &ExecutionError{Task: t.String(), Err: fmt.Errorf("result of %s is not available", v.Label())}
			}
			args[i] = result
		case *fileref.Typed:
			loaded, err := v.Load(ctx)
			if errors.Is(err, fileref.ErrNoLoader) {
				return nil, &TypeInferenceError{Task: t.String(), Param: param.Name, Err: err}
			}
			if err != nil {
				return nil, &ExecutionError{Task: t.String(), Err: fmt.Errorf("input %s: %w", param.Name, err)}
			}
			args[i] = loaded
		default:
			args[i] = v
		}

		if param.Type != nil && !assignableTo(args[i], param.Type) {
			return nil, &ExecutionError{
				Task: t.String(),
				Err:  fmt.Errorf("input %s: expected %s, got %T", param.Name, param.Type, args[i]),
			}
		}
	}

	logger.Debug("Running algorithm.")
	result, err := invoke(ctx, t.instance, args)
	if err != nil {
		return nil, &ExecutionError{Task: t.String(), Err: err}
	}
	return result, nil
}

func invoke(ctx context.Context, a registry.Algorithm, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("algorithm panicked: %v", r)
		}
	}()
	return a.Run(ctx, args...)
}

func assignableTo(v any, t reflect.Type) bool {
	if v == nil {
		return t.Kind() == reflect.Interface
	}
	return reflect.TypeOf(v).AssignableTo(t)
}

// Dependencies returns the distinct Tasks referenced among the positional
// inputs, in input order. Options never reference Tasks.
func (t *Task) Dependencies() []*Task {
	var deps []*Task
	seen := make(map[*Task]struct{})
	for _, in := range t.inputs {
		dep, ok := in.(*Task)
		if !ok {
			continue
		}
		if _, dup := seen[dep]; dup {
			continue
		}
		seen[dep] = struct{}{}
		deps = append(deps, dep)
	}
	return deps
}

// ID returns the identity assigned at construction.
func (t *Task) ID() uuid.UUID { return t.id }

// Name returns the name the Task was declared under, which may be empty.
func (t *Task) Name() string { return t.name }

// Category returns the algorithm category.
func (t *Task) Category() string { return t.category }

// Algorithm returns the algorithm name.
func (t *Task) Algorithm() string { return t.algorithm }

// Warnings returns the recoverable conditions met while constructing the Task.
func (t *Task) Warnings() []*ConstructorExtraParameterWarning { return t.warnings }

// Label is the short identifier used in logs: the declared name, or the
// first segment of the ID for anonymous Tasks.
func (t *Task) Label() string {
	if t.name != "" {
		return t.name
	}
	return t.id.String()[:8]
}

// String renders the Task as the compute call that declared it.
func (t *Task) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "compute(%q, %q", t.category, t.algorithm)
	for _, in := range t.rawInputs {
		sb.WriteString(", ")
		sb.WriteString(formatValue(in))
	}
	for _, name := range sortedKeys(t.rawOptions) {
		fmt.Fprintf(&sb, ", %s=%s", name, formatValue(t.rawOptions[name]))
	}
	sb.WriteString(")")
	return sb.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case *Task:
		return "compute." + val.Label()
	case fileref.Reference:
		return val.String()
	case cty.Value:
		nv, err := ctyToNative(val)
		if err != nil {
			return val.GoString()
		}
		return formatValue(nv)
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
