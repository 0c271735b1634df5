package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/fileref"
	"github.com/specialistvlad/recipegrid/internal/journal"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/storage"
	"github.com/specialistvlad/recipegrid/internal/task"
)

var (
	// ErrComplete is returned by RunOneTick once every output is available.
	ErrComplete = errors.New("execution is complete")
	// ErrAborted is returned by every call after a failure. It wraps the
	// original failure.
	ErrAborted = errors.New("execution aborted")
)

// Options are the collaborators an Execution saves outputs and journals with.
type Options struct {
	Codecs  *fileref.Codecs
	Storage storage.Storage
	// Journal defaults to journal.Nop.
	Journal journal.Journal
}

// Execution is one run of a Recipe. It is not safe for concurrent use.
type Execution struct {
	id           uuid.UUID
	outputs      []*task.Task
	destinations []string
	opts         Options

	// plan holds the needed tasks in declaration order.
	plan       []*task.Task
	planIndex  map[*task.Task]int
	dependents map[*task.Task][]*task.Task
	pending    map[*task.Task]int
	isOutput   map[*task.Task]bool

	completed map[*task.Task]bool
	results   task.Results
	remaining map[*task.Task]struct{}
	cursor    int
	failure   error
}

// New prepares an Execution of r. Only tasks reachable from the outputs are
// planned.
func New(ctx context.Context, r *recipe.Recipe, opts Options) *Execution {
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}

	e := &Execution{
		id:           uuid.New(),
		outputs:      r.Outputs(),
		destinations: r.Destinations(),
		opts:         opts,
		planIndex:    make(map[*task.Task]int),
		dependents:   make(map[*task.Task][]*task.Task),
		pending:      make(map[*task.Task]int),
		isOutput:     make(map[*task.Task]bool),
		completed:    make(map[*task.Task]bool),
		results:      make(task.Results),
		remaining:    make(map[*task.Task]struct{}),
	}

	needed := make(map[*task.Task]bool)
	var visit func(t *task.Task)
	visit = func(t *task.Task) {
		if needed[t] {
			return
		}
		needed[t] = true
		for _, dep := range t.Dependencies() {
			e.dependents[dep] = append(e.dependents[dep], t)
			visit(dep)
		}
	}
	for _, out := range e.outputs {
		e.isOutput[out] = true
		e.remaining[out] = struct{}{}
		visit(out)
	}

	for _, t := range r.Tasks() {
		if needed[t] {
			e.planIndex[t] = len(e.plan)
			e.plan = append(e.plan, t)
			e.pending[t] = len(e.dependents[t])
		}
	}

	ctxlog.FromContext(ctx).Debug("Execution planned.",
		"execution", e.id.String(), "declared", len(r.Tasks()), "needed", len(e.plan), "outputs", len(e.outputs))
	return e
}

// ID returns the identity of this Execution, as used in the journal.
func (e *Execution) ID() uuid.UUID { return e.id }

// Plan returns the tasks that will run, in declaration order.
func (e *Execution) Plan() []*task.Task {
	return append([]*task.Task(nil), e.plan...)
}

// Complete reports whether every output has been computed.
func (e *Execution) Complete() bool { return len(e.remaining) == 0 }

// Completed reports whether t has run.
func (e *Execution) Completed(t *task.Task) bool { return e.completed[t] }

// Cached reports whether the result of t is currently held.
func (e *Execution) Cached(t *task.Task) bool {
	_, ok := e.results[t]
	return ok
}

// Result returns the cached result of t.
func (e *Execution) Result(t *task.Task) (any, bool) {
	v, ok := e.results[t]
	return v, ok
}

// Err returns the failure that aborted the Execution, if any.
func (e *Execution) Err() error { return e.failure }

// RunOneTick runs the next needed task in declaration order.
//
// It returns ErrComplete when there is nothing left to run. A failing task,
// or a context cancelled before the task starts, aborts the Execution: the
// error is returned as is, and every later call returns ErrAborted.
func (e *Execution) RunOneTick(ctx context.Context) error {
	if e.failure != nil {
		return e.aborted()
	}
	if e.Complete() {
		return ErrComplete
	}

	for e.completed[e.plan[e.cursor]] {
		e.cursor++
	}
	t := e.plan[e.cursor]

	if err := ctx.Err(); err != nil {
		e.fail(ctx, t, fmt.Errorf("execution cancelled before %s: %w", t.Label(), err), 0)
		return e.failure
	}

	start := time.Now()
	result, err := t.Run(ctx, e.results)
	if err != nil {
		e.fail(ctx, t, err, time.Since(start))
		return err
	}
	e.finish(ctx, t, result, time.Since(start))
	e.cursor++
	return nil
}

// RunAndSave runs ticks until the Execution is complete, then saves it.
func (e *Execution) RunAndSave(ctx context.Context) error {
	for !e.Complete() {
		if err := e.RunOneTick(ctx); err != nil {
			return err
		}
	}
	return e.Save(ctx)
}

// Save writes each output to its destination with the writer registered for
// the output's concrete type. It panics if the Execution is not complete.
func (e *Execution) Save(ctx context.Context) error {
	if !e.Complete() {
		panic("execution: Save called before the execution is complete")
	}
	logger := ctxlog.FromContext(ctx)

	for i, out := range e.outputs {
		dest := e.destinations[i]
		if err := e.opts.Codecs.Save(ctx, e.opts.Storage, e.results[out], dest); err != nil {
			return fmt.Errorf("failed to save output %d (%s): %w", i, out.Label(), err)
		}
		logger.Info("Output saved.", "task", out.Label(), "destination", dest)
		e.record(ctx, journal.KindSaved, out, dest, 0)
	}
	return nil
}

// finish records the result of t and evicts every dependency of t that no
// pending task can read anymore.
func (e *Execution) finish(ctx context.Context, t *task.Task, result any, took time.Duration) {
	logger := ctxlog.FromContext(ctx)

	e.results[t] = result
	e.completed[t] = true
	delete(e.remaining, t)
	logger.Debug("Task completed.", "task", t.Label(), "duration", took)
	e.record(ctx, journal.KindCompleted, t, "", took)

	for _, dep := range t.Dependencies() {
		e.pending[dep]--
		if e.pending[dep] > 0 || e.isOutput[dep] {
			continue
		}
		delete(e.results, dep)
		logger.Debug("Evicted cached result.", "task", dep.Label(), "after", t.Label())
		e.record(ctx, journal.KindEvicted, dep, "", 0)
	}
}

func (e *Execution) fail(ctx context.Context, t *task.Task, err error, took time.Duration) {
	e.failure = err
	ctxlog.FromContext(ctx).Error("Task failed, execution aborted.", "task", t.Label(), "error", err)
	e.record(ctx, journal.KindFailed, t, err.Error(), took)
}

func (e *Execution) aborted() error {
	return fmt.Errorf("%w: %w", ErrAborted, e.failure)
}

// record writes an event to the journal. Events outlive cancellation of ctx
// so that an interrupted execution still leaves its failure behind.
func (e *Execution) record(ctx context.Context, kind journal.Kind, t *task.Task, detail string, took time.Duration) {
	err := e.opts.Journal.Record(context.WithoutCancel(ctx), journal.Event{
		ExecutionID: e.id,
		TaskID:      t.ID(),
		TaskName:    t.Name(),
		Category:    t.Category(),
		Algorithm:   t.Algorithm(),
		Kind:        kind,
		Detail:      detail,
		Duration:    took,
		At:          time.Now(),
	})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to record journal event.", "kind", kind, "task", t.Label(), "error", err)
	}
}
