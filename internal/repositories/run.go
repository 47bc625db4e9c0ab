package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Run is a persisted batch run.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Total        int
	SuccessCount int
	FailureCount int
	Interrupted  bool
}

// RunFromResult copies the metadata of res into a [Run].
func RunFromResult(res *models.BatchResult) *Run {
	return &Run{
		ID:           res.RunID,
		StartedAt:    res.StartedAt,
		FinishedAt:   res.FinishedAt,
		Total:        res.Total,
		SuccessCount: res.SuccessCount,
		FailureCount: res.FailureCount,
		Interrupted:  res.Interrupted,
	}
}

// RunRepository implements persistence for [Run].
type RunRepository struct {
	db Queryer
}

// NewRunRepository creates a new run repository
func NewRunRepository(db Queryer) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run, assigning an ID and start time when missing.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `
		INSERT INTO runs (id, started_at, finished_at, total, success_count, failure_count, interrupted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.StartedAt,
		nullTime(run.FinishedAt),
		run.Total,
		run.SuccessCount,
		run.FailureCount,
		run.Interrupted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(id string) (*Run, error) {
	query := `
		SELECT id, started_at, finished_at, total, success_count, failure_count, interrupted
		FROM runs
		WHERE id = ?
	`

	run, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, err
}

// List returns every run, newest first.
func (r *RunRepository) List() ([]*Run, error) {
	query := `
		SELECT id, started_at, finished_at, total, success_count, failure_count, interrupted
		FROM runs
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scan(s scanner) (*Run, error) {
	var run Run
	var finished sql.NullTime

	err := s.Scan(
		&run.ID,
		&run.StartedAt,
		&finished,
		&run.Total,
		&run.SuccessCount,
		&run.FailureCount,
		&run.Interrupted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}
