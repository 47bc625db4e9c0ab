package tasks

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

const maxWorkers = 10

// BatchOpts configures a [BatchRunner].
type BatchOpts struct {
	Workers  int                                 // Concurrent queries; 1 (default) resolves strictly in order
	OnRecord func(index int, rec models.Record) // Called from the runner goroutine for each matched query
	Logger   *log.Logger
}

// BatchRunner drives a [Pipeline] over a list of queries.
//
// One query failing, or panicking, never stops the batch. Cancelling the context stops new
// queries from starting; queries already in flight complete and their results are kept.
type BatchRunner struct {
	pipeline *Pipeline
	workers  int
	onRecord func(int, models.Record)
	logger   *log.Logger
}

// NewBatchRunner creates a runner around p.
func NewBatchRunner(p *Pipeline, opts BatchOpts) *BatchRunner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewDiscardLogger()
	}

	return &BatchRunner{
		pipeline: p,
		workers:  opts.Workers,
		onRecord: opts.OnRecord,
		logger:   opts.Logger,
	}
}

// outcomeAt pairs an outcome with the input position of its query.
type outcomeAt struct {
	index   int
	outcome models.Outcome
}

// Run resolves queries and returns the accumulated result.
//
// Records are ordered by the input position of their query. When ctx is cancelled the result
// holds everything completed so far and Interrupted is set.
//
// Stage updates on progress are best effort, but every finished query is reported exactly once,
// so a non-nil progress channel must be read until Run returns.
func (r *BatchRunner) Run(ctx context.Context, queries []string, progress chan<- ProgressUpdate) *models.BatchResult {
	result := &models.BatchResult{
		RunID:     shared.GenerateID(),
		StartedAt: time.Now(),
		Total:     len(queries),
	}
	logger := shared.WithLogger(r.logger, "run", result.RunID)
	logger.Info("starting batch", "queries", len(queries), "workers", r.workers)

	var outcomes []outcomeAt
	if r.workers == 1 {
		outcomes = r.runSequential(ctx, queries, progress, result)
	} else {
		outcomes = r.runPool(ctx, queries, progress, result)
	}

	for _, o := range sortByIndex(outcomes) {
		switch o.outcome.State {
		case models.Matched:
			result.Records = append(result.Records, o.outcome.Record)
			result.SuccessCount++
		default:
			result.Failures = append(result.Failures, models.QueryFailure{
				Index:  o.index,
				Query:  o.outcome.Query,
				Reason: o.outcome.Reason,
				Err:    o.outcome.Err,
			})
			result.FailureCount++
		}
	}

	result.FinishedAt = time.Now()
	if result.Interrupted {
		logger.Warn("batch interrupted", "attempted", result.Attempted(), "total", result.Total)
	}
	logger.Info("batch finished",
		"matched", result.SuccessCount,
		"failed", result.FailureCount,
		"rate", fmt.Sprintf("%.1f%%", result.SuccessRate()),
	)
	sendProgress(progress, batchDoneUpdate(result))
	return result
}

func (r *BatchRunner) runSequential(ctx context.Context, queries []string, progress chan<- ProgressUpdate, result *models.BatchResult) []outcomeAt {
	outcomes := make([]outcomeAt, 0, len(queries))

	for i, query := range queries {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		o := outcomeAt{index: i, outcome: r.resolveSafely(context.WithoutCancel(ctx), i, query, len(queries), progress)}
		outcomes = append(outcomes, o)
		r.observe(o, len(queries), progress)
	}
	return outcomes
}

// runPool resolves queries with a bounded worker pool.
//
// The dispatcher stops feeding jobs once ctx is cancelled; workers finish what they hold.
func (r *BatchRunner) runPool(ctx context.Context, queries []string, progress chan<- ProgressUpdate, result *models.BatchResult) []outcomeAt {
	type job struct {
		index int
		query string
	}

	jobs := make(chan job)
	results := make(chan outcomeAt, len(queries))
	inflight := context.WithoutCancel(ctx)
	dispatched := 0

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- outcomeAt{index: j.index, outcome: r.resolveSafely(inflight, j.index, j.query, len(queries), progress)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, query := range queries {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, query: query}:
				dispatched++
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]outcomeAt, 0, len(queries))
	for o := range results {
		outcomes = append(outcomes, o)
		r.observe(o, len(queries), progress)
	}

	if dispatched < len(queries) {
		result.Interrupted = true
	}
	return outcomes
}

// resolveSafely runs the pipeline for one query, turning a panic into an Unmatched outcome.
func (r *BatchRunner) resolveSafely(ctx context.Context, index int, query string, total int, progress chan<- ProgressUpdate) (out models.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("query panicked", "index", index, "query", query, "panic", rec, "stack", string(debug.Stack()))
			out = models.UnmatchedOutcome(query, models.Panicked, fmt.Errorf("%w: %v", shared.ErrUnexpected, rec))
		}
	}()

	return r.pipeline.resolve(ctx, query, position{step: index + 1, total: total}, progress)
}

// observe reports a finished query to the progress channel and the record hook.
func (r *BatchRunner) observe(o outcomeAt, total int, progress chan<- ProgressUpdate) {
	pos := position{step: o.index + 1, total: total}

	if o.outcome.State == models.Matched {
		sendOutcome(progress, matchedUpdate(pos, o.outcome.Record))
		if r.onRecord != nil {
			r.onRecord(o.index, o.outcome.Record)
		}
		return
	}

	sendOutcome(progress, unmatchedUpdate(pos, models.QueryFailure{
		Index:  o.index,
		Query:  o.outcome.Query,
		Reason: o.outcome.Reason,
		Err:    o.outcome.Err,
	}))
}
