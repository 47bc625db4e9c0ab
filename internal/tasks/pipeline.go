package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
)

// PipelineOpts configures a [Pipeline].
type PipelineOpts struct {
	Metadata services.MetadataSource // Required
	Content  services.ContentSource  // Optional; lyrics stay unavailable when nil
	Links    services.LinkSource     // Optional; video links stay unavailable when nil
	PerPage  int                     // Search result cap, defaults to 1
	Logger   *log.Logger
}

// Pipeline resolves one query into an [models.Outcome].
//
// Stages run in order: search, details, lyrics, video. A failed search or detail fetch ends
// the query as Unmatched and no later stage runs. Lyrics and video failures only leave
// their field at [models.Unavailable].
type Pipeline struct {
	metadata services.MetadataSource
	content  services.ContentSource
	links    services.LinkSource
	perPage  int
	logger   *log.Logger
}

// NewPipeline creates a Pipeline from the given sources.
func NewPipeline(opts PipelineOpts) (*Pipeline, error) {
	if opts.Metadata == nil {
		return nil, fmt.Errorf("%w: metadata source is required", shared.ErrInvalidArgument)
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 1
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewDiscardLogger()
	}

	return &Pipeline{
		metadata: opts.Metadata,
		content:  opts.Content,
		links:    opts.Links,
		perPage:  opts.PerPage,
		logger:   opts.Logger,
	}, nil
}

// Resolve runs every stage for query and returns its terminal state.
func (p *Pipeline) Resolve(ctx context.Context, query string) models.Outcome {
	return p.resolve(ctx, query, position{step: 1, total: 1}, nil)
}

func (p *Pipeline) resolve(ctx context.Context, query string, pos position, progress chan<- ProgressUpdate) models.Outcome {
	logger := shared.WithLogger(p.logger, "query", query)

	sendProgress(progress, searchingUpdate(pos, query))
	candidates, err := p.metadata.Search(ctx, query, p.perPage)
	if err == nil && len(candidates) == 0 {
		err = fmt.Errorf("%w: %q", shared.ErrNoMatch, query)
	}
	if err != nil {
		logger.Warn("no candidates", "kind", shared.FailureKind(err), "error", err)
		return models.UnmatchedOutcome(query, models.NoCandidates, err)
	}

	best := candidates[0]
	sendProgress(progress, detailsUpdate(pos, best))
	details, err := p.metadata.SongDetails(ctx, best.ID)
	if err == nil && details == nil {
		err = fmt.Errorf("%w: empty details for %s", shared.ErrMalformedResponse, best.ID)
	}
	if err != nil {
		logger.Warn("details unavailable", "id", best.ID, "kind", shared.FailureKind(err), "error", err)
		return models.UnmatchedOutcome(query, models.DetailsUnavailable, err)
	}

	record := details.Normalize()

	if p.content != nil && !models.IsUnavailable(record.URL) {
		sendProgress(progress, lyricsUpdate(pos, record))
		lyrics, err := p.content.Lyrics(ctx, record.URL)
		if err != nil {
			logger.Warn("lyrics unavailable", "url", record.URL, "kind", shared.FailureKind(err), "error", err)
			lyrics = ""
		}
		record.Lyrics = models.OrUnavailable(lyrics)
	}

	if p.links != nil && !models.IsUnavailable(record.Title) {
		sendProgress(progress, videoUpdate(pos, record))
		link, err := p.links.VideoLink(ctx, record.Title, record.Artist)
		if err != nil {
			logger.Debug("video link unavailable", "kind", shared.FailureKind(err), "error", err)
			link = ""
		}
		record.VideoURL = models.OrUnavailable(link)
	}

	logger.Info("resolved", "id", record.ID, "title", record.Title, "artist", record.Artist)
	return models.MatchedOutcome(query, record.Normalize())
}
