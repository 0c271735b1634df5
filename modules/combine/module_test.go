package combine

import (
	"context"
	"testing"

	"github.com/specialistvlad/recipegrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, name string, inputs ...any) (any, error) {
	t.Helper()
	r := registry.New()
	(&Module{}).Register(r)
	def, err := r.Lookup("combine", name)
	require.NoError(t, err)
	a, err := def.New(nil)
	require.NoError(t, err)
	return a.Run(context.Background(), inputs...)
}

func TestAdd(t *testing.T) {
	out, err := run(t, "Add", 2.0, 3.5)
	require.NoError(t, err)
	assert.Equal(t, 5.5, out)

	_, err = run(t, "Add", 2.0)
	assert.ErrorContains(t, err, "expected 2 inputs, got 1")
}

func TestRatio(t *testing.T) {
	out, err := run(t, "Ratio", 3.0, 4.0)
	require.NoError(t, err)
	assert.Equal(t, 0.75, out)

	_, err = run(t, "Ratio", 3.0, 0.0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
