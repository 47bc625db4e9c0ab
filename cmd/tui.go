package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/desertthunder/lyrx/internal/ui"
)

// TUI runs the batch inside the interactive terminal UI, then exports the result.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	plan, err := r.plan(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lyrx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	pipeline, err := r.newPipeline(plan.video)
	if err != nil {
		return err
	}
	runner := tasks.NewBatchRunner(pipeline, tasks.BatchOpts{Workers: plan.workers, Logger: r.logger})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(runCtx, cancel, runner, plan.queries)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	result := model.Result()
	if result == nil {
		return fmt.Errorf("%w: TUI exited before the run finished", shared.ErrUnexpected)
	}
	return r.finish(result, plan)
}
