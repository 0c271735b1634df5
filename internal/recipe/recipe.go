package recipe

import (
	"context"
	"fmt"
	"maps"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot holds the top-level content of a recipe.
type fileRoot struct {
	Computes    []*computeBlock `hcl:"compute,block"`
	FileOutputs hcl.Expression  `hcl:"file_outputs,optional"`
}

type computeBlock struct {
	Name      string         `hcl:"name,label"`
	Category  string         `hcl:"category"`
	Algorithm string         `hcl:"algorithm"`
	Inputs    hcl.Expression `hcl:"inputs,optional"`
	Options   *optionsBlock  `hcl:"options,block"`
}

type optionsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Recipe is the immutable result of parsing: every declared Task in
// declaration order and the output Tasks matched positionally to their
// destinations.
type Recipe struct {
	tasks        []*task.Task
	byName       map[string]*task.Task
	outputs      []*task.Task
	destinations []string
	warnings     []*task.ConstructorExtraParameterWarning
}

// Parse evaluates the recipe in src. inputs are exposed to the recipe as
// file_inputs; outputs are the destinations the entries of file_outputs are
// saved to, by index.
//
// Structural problems are reported as *RecipeError. Failures constructing a
// Task keep their own kind (*task.ConstructorError, *task.TypeInferenceError,
// registry.ErrAlgorithmNotFound).
func Parse(ctx context.Context, src []byte, filename string, inputs, outputs []string, env task.Env) (*Recipe, error) {
	logger := ctxlog.FromContext(ctx).With("recipe", filename)
	logger.Debug("Parsing recipe.", "inputs", len(inputs), "outputs", len(outputs))

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &RecipeError{Msg: "failed to parse " + filename, Diags: diags}
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, &RecipeError{Msg: "failed to decode " + filename, Diags: diags}
	}

	fileInputs := cty.EmptyTupleVal
	if len(inputs) > 0 {
		vals := make([]cty.Value, len(inputs))
		for i, loc := range inputs {
			vals[i] = fileRefVal(loc)
		}
		fileInputs = cty.TupleVal(vals)
	}

	r := &Recipe{
		byName:       make(map[string]*task.Task),
		destinations: append([]string(nil), outputs...),
	}
	declared := make(map[string]cty.Value)

	// Options never see compute, so they cannot carry task references.
	optionsCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"file_inputs": fileInputs},
	}

	for _, block := range root.Computes {
		if _, dup := declared[block.Name]; dup {
			return nil, recipeErrorf("compute %q is declared more than once", block.Name)
		}

		inputsCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"file_inputs": fileInputs,
				"compute":     cty.ObjectVal(maps.Clone(declared)),
			},
		}

		def, err := block.definition(inputsCtx, optionsCtx)
		if err != nil {
			return nil, err
		}

		t, err := task.New(ctx, env, def)
		if err != nil {
			return nil, fmt.Errorf("compute %q: %w", block.Name, err)
		}

		r.tasks = append(r.tasks, t)
		r.byName[block.Name] = t
		r.warnings = append(r.warnings, t.Warnings()...)
		declared[block.Name] = taskVal(t)
	}

	outputsCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"file_inputs": fileInputs,
			"compute":     cty.ObjectVal(declared),
		},
	}
	if err := r.bindOutputs(root.FileOutputs, outputsCtx); err != nil {
		return nil, err
	}

	logger.Info("Recipe parsed.", "tasks", len(r.tasks), "outputs", len(r.outputs), "warnings", len(r.warnings))
	return r, nil
}

func (b *computeBlock) definition(inputsCtx, optionsCtx *hcl.EvalContext) (task.Definition, error) {
	def := task.Definition{
		Name:      b.Name,
		Category:  b.Category,
		Algorithm: b.Algorithm,
	}

	inputs, diags := b.Inputs.Value(inputsCtx)
	if diags.HasErrors() {
		return def, &RecipeError{Msg: "compute " + strconv.Quote(b.Name) + ": invalid inputs", Diags: diags}
	}
	if !inputs.IsNull() {
		ty := inputs.Type()
		if !ty.IsTupleType() && !ty.IsListType() {
			return def, recipeErrorf("compute %q: inputs must be a list, got %s", b.Name, ty.FriendlyName())
		}
		for i, v := range inputs.AsValueSlice() {
			in, ok := unwrap(v)
			if !ok {
				return def, recipeErrorf("compute %q: input %d nests a reference inside a value", b.Name, i)
			}
			def.Inputs = append(def.Inputs, in)
		}
	}

	if b.Options == nil {
		return def, nil
	}
	attrs, diags := b.Options.Body.JustAttributes()
	if diags.HasErrors() {
		return def, &RecipeError{Msg: "compute " + strconv.Quote(b.Name) + ": invalid options", Diags: diags}
	}
	def.Options = make(map[string]any, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(optionsCtx)
		if diags.HasErrors() {
			return def, &RecipeError{Msg: "compute " + strconv.Quote(b.Name) + ": invalid option " + name, Diags: diags}
		}
		opt, ok := unwrap(v)
		if !ok {
			return def, recipeErrorf("compute %q: option %s nests a reference inside a value", b.Name, name)
		}
		def.Options[name] = opt
	}
	return def, nil
}

func (r *Recipe) bindOutputs(expr hcl.Expression, evalCtx *hcl.EvalContext) error {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return &RecipeError{Msg: "invalid file_outputs", Diags: diags}
	}

	entries := map[string]cty.Value{}
	if !val.IsNull() {
		ty := val.Type()
		if !ty.IsObjectType() && !ty.IsMapType() {
			return recipeErrorf("file_outputs must be a mapping, got %s", ty.FriendlyName())
		}
		entries = val.AsValueMap()
	}

	if len(entries) != len(r.destinations) {
		return recipeErrorf("recipe declares %d outputs but %d destinations were given", len(entries), len(r.destinations))
	}

	r.outputs = make([]*task.Task, len(entries))
	for i := range r.outputs {
		v, ok := entries[strconv.Itoa(i)]
		if !ok {
			return recipeErrorf("file_outputs is missing index %d", i)
		}
		if v.IsNull() || !v.Type().Equals(taskType) {
			return recipeErrorf("file_outputs[%d] must be a compute result, got %s", i, v.Type().FriendlyName())
		}
		r.outputs[i] = v.EncapsulatedValue().(*task.Task)
	}
	return nil
}

// Tasks returns every declared Task in declaration order.
func (r *Recipe) Tasks() []*task.Task {
	return append([]*task.Task(nil), r.tasks...)
}

// Task returns the Task declared under name.
func (r *Recipe) Task(name string) (*task.Task, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Outputs returns the output Tasks, one per destination.
func (r *Recipe) Outputs() []*task.Task {
	return append([]*task.Task(nil), r.outputs...)
}

// Destinations returns the output destinations in output order.
func (r *Recipe) Destinations() []string {
	return append([]string(nil), r.destinations...)
}

// Warnings returns every warning raised while constructing the Tasks.
func (r *Recipe) Warnings() []*task.ConstructorExtraParameterWarning {
	return append([]*task.ConstructorExtraParameterWarning(nil), r.warnings...)
}
