package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
)

// batchPlan is the resolved input, output and concurrency for one run.
type batchPlan struct {
	queries  []string
	output   string
	exporter formatter.Exporter
	workers  int
	video    bool
}

// plan reads batch flags, falling back to the configuration.
//
// Missing queries and unknown formats fail here, before any request is made.
func (r *Runner) plan(cmd *cli.Command) (*batchPlan, error) {
	input := cmd.String("input")
	if input == "" {
		input = r.config.Files.Searches
	}
	output := cmd.String("output")
	if output == "" {
		output = r.config.Files.Output
	}
	format := cmd.String("format")
	if format == "" {
		format = r.config.Files.Format
	}
	workers := r.config.Search.Workers
	if cmd.IsSet("workers") {
		workers = int(cmd.Int("workers"))
	}

	queries, err := shared.LoadQueries(input)
	if err != nil {
		return nil, err
	}

	exporter, err := formatter.ForPath(output, format)
	if err != nil {
		return nil, err
	}

	r.logger.Info("loaded queries", "path", input, "count", len(queries))
	return &batchPlan{
		queries:  queries,
		output:   output,
		exporter: exporter,
		workers:  workers,
		video:    !cmd.Bool("no-video"),
	}, nil
}

// Resolve runs the batch with line-by-line progress and exports the result.
//
// An interrupt stops new queries; the partial result is still summarized and exported.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("tui") {
		return r.TUI(ctx, cmd)
	}

	plan, err := r.plan(cmd)
	if err != nil {
		return err
	}

	pipeline, err := r.newPipeline(plan.video)
	if err != nil {
		return err
	}

	runner := tasks.NewBatchRunner(pipeline, tasks.BatchOpts{Workers: plan.workers, Logger: r.logger})

	progress := make(chan tasks.ProgressUpdate, 100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.printProgress(progress)
	}()

	result := runner.Run(ctx, plan.queries, progress)
	close(progress)
	wg.Wait()

	return r.finish(result, plan)
}

// printProgress writes one line per finished query.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate) {
	for update := range progress {
		switch update.Phase {
		case tasks.QueryMatched:
			r.writePlain("%s\n", update.Message)
		case tasks.QueryUnmatched:
			r.writePlain("%s\n", failStyle.Render(update.Message))
		default:
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}
}

// finish prints the summary and exports result.
func (r *Runner) finish(result *models.BatchResult, plan *batchPlan) error {
	r.printSummary(result)

	if err := formatter.Write(plan.exporter, result, plan.output); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.logger.Info("export complete", "path", plan.output, "records", len(result.Records))
	r.writePlainln("Saved %d records to %s", len(result.Records), plan.output)
	return nil
}

func (r *Runner) printSummary(result *models.BatchResult) {
	r.writePlainln("")
	r.writePlainHeader("Summary")
	r.writePlain("Queries:      %d\n", result.Total)
	r.writePlain("Matched:      %s\n", okStyle.Render(fmt.Sprintf("%d", result.SuccessCount)))
	r.writePlain("Failed:       %d\n", result.FailureCount)
	r.writePlain("Success rate: %.1f%%\n", result.SuccessRate())

	if result.Interrupted {
		r.writePlain("%s\n", warnStyle.Render(fmt.Sprintf("Interrupted after %d of %d queries", result.Attempted(), result.Total)))
	}

	if len(result.Failures) == 0 {
		return
	}

	r.writePlainln("Failed queries:")
	for _, f := range result.Failures {
		line := fmt.Sprintf("  • [%d] %s: %s", f.Index+1, f.Query, f.Reason)
		if kind := shared.FailureKind(f.Err); kind != "" {
			line = fmt.Sprintf("%s (%s)", line, kind)
		}
		r.writePlain("%s\n", line)
	}
}
