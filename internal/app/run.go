package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/execution"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/task"
)

// Run parses the configured recipe and executes it, saving every output.
// In plan mode it prints the tasks that would run instead.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	src, err := os.ReadFile(a.config.RecipePath)
	if err != nil {
		return fmt.Errorf("failed to read recipe: %w", err)
	}

	env := task.Env{Registry: a.registry, Storage: a.storage}
	r, err := recipe.Parse(ctx, src, a.config.RecipePath, a.config.Inputs, a.config.Outputs, env)
	if err != nil {
		return fmt.Errorf("failed to build recipe: %w", err)
	}

	exec := execution.New(ctx, r, execution.Options{
		Codecs:  a.registry.Codecs(),
		Storage: a.storage,
		Journal: a.journal,
	})
	logger := a.logger.With("execution", exec.ID().String())

	if a.config.Plan {
		for i, t := range exec.Plan() {
			fmt.Fprintf(a.outW, "%d\t%s\t%s\n", i, t.Label(), t)
		}
		return nil
	}

	if len(exec.Plan()) == 0 {
		logger.Warn("Recipe has no outputs, nothing to run.")
		return nil
	}

	logger.Info("Starting execution.", "tasks", len(exec.Plan()), "workers", a.config.Workers)
	if a.config.Workers > 1 {
		if err := exec.RunParallel(ctx, a.config.Workers); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		if err := exec.Save(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
	} else if err := exec.RunAndSave(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	logger.Info("Execution finished.", "outputs", len(a.config.Outputs))

	a.logger.Debug("App.Run method finished.")
	return nil
}
