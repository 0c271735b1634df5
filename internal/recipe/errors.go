package recipe

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// RecipeError reports a recipe that cannot produce a runnable Recipe: invalid
// syntax, references that cannot be resolved, or an invalid output mapping.
type RecipeError struct {
	Msg   string
	Diags hcl.Diagnostics
}

func (e *RecipeError) Error() string {
	if !e.Diags.HasErrors() {
		return "invalid recipe: " + e.Msg
	}
	return fmt.Sprintf("invalid recipe: %s: %s", e.Msg, e.Diags.Error())
}

func (e *RecipeError) Unwrap() error {
	if !e.Diags.HasErrors() {
		return nil
	}
	return e.Diags
}

func recipeErrorf(format string, args ...any) *RecipeError {
	return &RecipeError{Msg: fmt.Sprintf(format, args...)}
}
