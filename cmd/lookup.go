package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Search resolves a single query through the full pipeline and prints the record.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	pipeline, err := r.newPipeline(!cmd.Bool("no-video"))
	if err != nil {
		return err
	}

	r.logger.Info("resolving query", "query", query)
	outcome := pipeline.Resolve(ctx, query)
	if outcome.State != models.Matched {
		if outcome.Err != nil {
			return fmt.Errorf("%w: %q: %s: %w", shared.ErrNoMatch, query, outcome.Reason, outcome.Err)
		}
		return fmt.Errorf("%w: %q: %s", shared.ErrNoMatch, query, outcome.Reason)
	}

	return r.writeJSON(outcome.Record, cmd.Bool("pretty"))
}

// Lyrics prints the cleaned lyrics of one song page.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	pageURL := strings.TrimSpace(cmd.Args().First())
	if pageURL == "" {
		return fmt.Errorf("%w: song page URL", shared.ErrMissingArgument)
	}

	_, content, err := r.sources()
	if err != nil {
		return err
	}
	if content == nil {
		return fmt.Errorf("%w: no lyrics source configured", shared.ErrInvalidConfig)
	}

	lyrics, err := content.Lyrics(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to fetch lyrics: %w", err)
	}

	return r.writePlain("%s\n", lyrics)
}

// Video prints the YouTube link for a title and artist.
func (r *Runner) Video(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("%w: song title", shared.ErrMissingArgument)
	}

	links := r.linkSource(true)
	if links == nil {
		return fmt.Errorf("%w: video lookup is disabled (credentials.youtube.enabled)", shared.ErrInvalidConfig)
	}

	link, err := links.VideoLink(ctx, title, cmd.String("artist"))
	if err != nil {
		return fmt.Errorf("failed to find video: %w", err)
	}

	return r.writePlain("%s\n", link)
}
