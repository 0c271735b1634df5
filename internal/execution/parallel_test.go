package execution

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/recipegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fanInRecipe sums four independent constants in two levels.
var fanInRecipe = constBlock("c0", 1) +
	constBlock("c1", 2) +
	constBlock("c2", 3) +
	constBlock("c3", 4) +
	constBlock("decoy", 99) +
	opBlock("s1", "Add", "c0", "c1") +
	opBlock("s2", "Add", "c2", "c3") +
	opBlock("total", "Add", "s1", "s2") +
	outputsBlock("total")

func TestRunParallel_FanIn(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	rec := testutil.NewRecorder()
	rec.Sleep = 20 * time.Millisecond
	f := newFixture(t, ctx, fanInRecipe, nil, 1, rec)

	e := New(ctx, f.recipe, f.opts)
	require.NoError(t, e.RunParallel(ctx, 4))
	require.True(t, e.Complete())

	assert.Greater(t, rec.MaxConcurrent(), 1, "independent tasks should overlap")
	assert.LessOrEqual(t, rec.MaxConcurrent(), 4)
	assert.NotContains(t, rec.Runs(), "decoy")
	assert.Len(t, rec.Runs(), 7)

	got := cacheState(t, f, e, "c0", "c1", "c2", "c3", "s1", "s2", "total")
	assert.Equal(t, map[string]bool{
		"c0": false, "c1": false, "c2": false, "c3": false,
		"s1": false, "s2": false, "total": true,
	}, got)

	require.NoError(t, e.Save(ctx))
	assert.Equal(t, "10\n", f.saved(t, 0))
}

func TestRunParallel_MatchesSerial(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	f := newFixture(t, ctx, fanInRecipe, nil, 1, nil)

	serial := New(ctx, f.recipe, f.opts)
	require.NoError(t, serial.RunAndSave(ctx))
	want := f.saved(t, 0)

	parallel := New(ctx, f.recipe, f.opts)
	require.NoError(t, parallel.RunParallel(ctx, 3))
	require.NoError(t, parallel.Save(ctx))
	assert.Equal(t, want, f.saved(t, 0))
}

func TestRunParallel_SingleWorkerKeepsDeclarationOrder(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	f := newFixture(t, ctx, fanInRecipe, nil, 1, nil)

	e := New(ctx, f.recipe, f.opts)
	require.NoError(t, e.RunParallel(ctx, 1))

	assert.Equal(t, []string{"c0", "c1", "c2", "c3", "s1", "s2", "total"}, f.recorder.Runs())
	assert.Equal(t, 1, f.recorder.MaxConcurrent())
}

func TestRunParallel_ResumesAfterTicks(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	f := newFixture(t, ctx, fanInRecipe, nil, 1, nil)

	e := New(ctx, f.recipe, f.opts)
	require.NoError(t, e.RunOneTick(ctx))
	require.NoError(t, e.RunOneTick(ctx))
	require.NoError(t, e.RunParallel(ctx, 2))

	assert.Len(t, f.recorder.Runs(), 7, "completed tasks are not run again")
	require.NoError(t, e.Save(ctx))
	assert.Equal(t, "10\n", f.saved(t, 0))
}

func TestRunParallel_FailureStopsDispatch(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	src := constBlock("a", 1) +
		opBlock("bad", "Fail", "a") +
		opBlock("after", "Pass", "bad") +
		constBlock("b", 2) +
		opBlock("sum", "Add", "after", "b") +
		outputsBlock("sum")
	f := newFixture(t, ctx, src, nil, 1, nil)

	e := New(ctx, f.recipe, f.opts)
	err := e.RunParallel(ctx, 2)
	assert.ErrorIs(t, err, testutil.ErrBoom)
	assert.ErrorIs(t, e.Err(), testutil.ErrBoom)

	assert.NotContains(t, f.recorder.Runs(), "after")
	assert.NotContains(t, f.recorder.Runs(), "sum")
	assert.False(t, e.Complete())
	assert.ErrorIs(t, e.RunOneTick(ctx), ErrAborted)
	assert.ErrorIs(t, e.RunParallel(ctx, 2), ErrAborted)
}

func TestRunParallel_CancelledContext(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	f := newFixture(t, ctx, fanInRecipe, nil, 1, nil)
	e := New(ctx, f.recipe, f.opts)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	assert.ErrorIs(t, e.RunParallel(cancelled, 4), context.Canceled)
	assert.Empty(t, f.recorder.Runs())
	assert.ErrorIs(t, e.RunOneTick(ctx), ErrAborted)
}
