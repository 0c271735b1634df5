package execution

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/task"
)

type job struct {
	task   *task.Task
	inputs task.Results
}

type outcome struct {
	task   *task.Task
	result any
	err    error
	took   time.Duration
}

// RunParallel runs the remaining needed tasks on a pool of workers until the
// Execution is complete or a task fails.
//
// The calling goroutine owns all Execution state. A task is dispatched once
// all its dependencies have completed, ready tasks go out in declaration
// order, and each task receives only the results of its own dependencies.
// Results are evicted exactly as with RunOneTick. After the first failure, or
// once ctx is cancelled, no new task is dispatched; tasks already running are
// waited for.
func (e *Execution) RunParallel(ctx context.Context, workers int) error {
	if e.failure != nil {
		return e.aborted()
	}
	if e.Complete() {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	logger := ctxlog.FromContext(ctx).With("execution", e.id.String())
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	outcomes := make(chan outcome, workers)
	var wg sync.WaitGroup

	logger.Debug("Starting worker pool.", "workers", workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				logger.Debug("Worker picked up task.", "workerID", workerID, "task", j.task.Label())
				start := time.Now()
				result, err := j.task.Run(runCtx, j.inputs)
				outcomes <- outcome{task: j.task, result: result, err: err, took: time.Since(start)}
			}
		}(i)
	}

	unmet := make(map[*task.Task]int)
	var ready []*task.Task
	for _, t := range e.plan {
		if e.completed[t] {
			continue
		}
		for _, dep := range t.Dependencies() {
			if !e.completed[dep] {
				unmet[t]++
			}
		}
		if unmet[t] == 0 {
			ready = append(ready, t)
		}
	}

	inFlight := 0
	var failure error
	for {
		if failure == nil && ctx.Err() != nil && len(ready) > 0 {
			next := ready[0]
			failure = fmt.Errorf("execution cancelled before %s: %w", next.Label(), ctx.Err())
			e.fail(ctx, next, failure, 0)
		}
		for failure == nil && inFlight < workers && len(ready) > 0 {
			t := ready[0]
			ready = ready[1:]
			jobs <- job{task: t, inputs: e.snapshot(t)}
			inFlight++
		}
		if inFlight == 0 {
			break
		}

		o := <-outcomes
		inFlight--
		if o.err != nil {
			if failure == nil {
				e.fail(ctx, o.task, o.err, o.took)
				failure = o.err
				cancel()
			} else {
				logger.Warn("Task failed after the execution was aborted.", "task", o.task.Label(), "error", o.err)
			}
			continue
		}

		e.finish(ctx, o.task, o.result, o.took)
		for _, d := range e.dependents[o.task] {
			if e.completed[d] {
				continue
			}
			unmet[d]--
			if unmet[d] == 0 {
				idx, _ := slices.BinarySearchFunc(ready, d, func(a, b *task.Task) int {
					return e.planIndex[a] - e.planIndex[b]
				})
				ready = slices.Insert(ready, idx, d)
			}
		}
	}

	close(jobs)
	wg.Wait()

	if failure != nil {
		logger.Error("Execution aborted.", "error", failure)
		return failure
	}
	logger.Info("All tasks completed.", "tasks", len(e.plan))
	return nil
}

// snapshot copies the cached results t reads.
func (e *Execution) snapshot(t *task.Task) task.Results {
	deps := t.Dependencies()
	inputs := make(task.Results, len(deps))
	for _, dep := range deps {
		inputs[dep] = e.results[dep]
	}
	return inputs
}
