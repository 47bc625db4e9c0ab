package repositories

import (
	"fmt"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Failure is a persisted unmatched query.
type Failure struct {
	Position int
	Query    string
	Reason   string
	Error    string
}

// FailureRepository implements persistence for unmatched queries of a run.
type FailureRepository struct {
	db Queryer
}

// NewFailureRepository creates a new failure repository
func NewFailureRepository(db Queryer) *FailureRepository {
	return &FailureRepository{db: db}
}

// Create stores f against runID.
func (r *FailureRepository) Create(runID string, f models.QueryFailure) error {
	var errText string
	if f.Err != nil {
		errText = f.Err.Error()
	}

	query := `
		INSERT INTO failures (id, run_id, position, query, reason, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, shared.GenerateID(), runID, f.Index, f.Query, f.Reason.String(), errText); err != nil {
		return fmt.Errorf("failed to insert failure: %w", err)
	}
	return nil
}

// ListByRun returns the failures of runID in position order.
func (r *FailureRepository) ListByRun(runID string) ([]Failure, error) {
	query := `
		SELECT position, query, reason, error
		FROM failures
		WHERE run_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Position, &f.Query, &f.Reason, &f.Error); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating failures: %w", err)
	}
	return failures, nil
}
