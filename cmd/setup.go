package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/lyrx/internal/repositories"
	"github.com/desertthunder/lyrx/internal/shared"
)

// SetupConfig writes config.toml from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			r.logger.Warn("config file already exists, leaving it untouched", "path", path)
			return nil
		}
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.genius.access_token (or GENIUS_ACCESS_TOKEN in .env)\n")
	r.writePlain("2. Put one search per line in %s\n", r.config.Files.Searches)
	r.writePlain("3. Run 'lyrx resolve'\n")
	return nil
}

// SetupDatabase creates an SQLite export database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	r.logger.Info("initializing database", "path", path)
	db, err := shared.OpenExportDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", path)
	return nil
}

// runSummary is the JSON shape of a stored run.
type runSummary struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
	Total       int       `json:"total"`
	Matched     int       `json:"matched"`
	Failed      int       `json:"failed"`
	Interrupted bool      `json:"interrupted"`
}

// Runs lists the runs stored in an SQLite export, or the failures of one run.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenExportDatabase(cmd.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	if id := cmd.String("id"); id != "" {
		return r.runFailures(repositories.NewFailureRepository(db), id, cmd.Bool("json"))
	}

	runs, err := repositories.NewRunRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		summaries := make([]runSummary, len(runs))
		for i, run := range runs {
			summaries[i] = runSummary{
				ID:          run.ID,
				StartedAt:   run.StartedAt,
				FinishedAt:  run.FinishedAt,
				Total:       run.Total,
				Matched:     run.SuccessCount,
				Failed:      run.FailureCount,
				Interrupted: run.Interrupted,
			}
		}
		return r.writeJSON(summaries, true)
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded\n")
	}

	r.writePlainHeader("Runs")
	for _, run := range runs {
		status := "complete"
		if run.Interrupted {
			status = "interrupted"
		}
		r.writePlain("%s  %s  %d/%d matched  %s\n",
			run.ID, run.StartedAt.Local().Format(time.DateTime), run.SuccessCount, run.Total, status)
	}
	return nil
}

func (r *Runner) runFailures(repo *repositories.FailureRepository, runID string, asJSON bool) error {
	failures, err := repo.ListByRun(runID)
	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(failures, true)
	}

	if len(failures) == 0 {
		return r.writePlain("No failures recorded for %s\n", runID)
	}

	r.writePlainHeader(fmt.Sprintf("Failures in %s", runID))
	for _, f := range failures {
		line := fmt.Sprintf("  • [%d] %s: %s", f.Position+1, f.Query, f.Reason)
		if f.Error != "" {
			line = fmt.Sprintf("%s (%s)", line, f.Error)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}
