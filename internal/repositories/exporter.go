package repositories

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// SQLiteExporter writes batch results into a SQLite database.
//
// Unlike the file exporters it appends: an existing database keeps its earlier runs.
type SQLiteExporter struct{}

// NewSQLiteExporter creates a new SQLite exporter
func NewSQLiteExporter() *SQLiteExporter {
	return &SQLiteExporter{}
}

// Export stores records as a single completed run.
func (e *SQLiteExporter) Export(records []models.Record, path string) error {
	res := &models.BatchResult{
		RunID:        shared.GenerateID(),
		Records:      records,
		SuccessCount: len(records),
		Total:        len(records),
	}
	return e.ExportRun(res, path)
}

// ExportRun stores res, its records and its failures in one transaction.
func (e *SQLiteExporter) ExportRun(res *models.BatchResult, path string) error {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := shared.OpenExportDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return SaveRun(db, res)
}

// SaveRun writes res into an already migrated database.
func SaveRun(db *sql.DB, res *models.BatchResult) error {
	return InTx(db, func(tx *sql.Tx) error {
		run := RunFromResult(res)
		if err := NewRunRepository(tx).Create(run); err != nil {
			return err
		}
		res.RunID = run.ID

		records := NewRecordRepository(tx)
		positions := matchedPositions(res)
		for i, rec := range res.Records {
			if err := records.Create(run.ID, positions[i], rec); err != nil {
				return err
			}
		}

		failures := NewFailureRepository(tx)
		for _, f := range res.Failures {
			if err := failures.Create(run.ID, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// matchedPositions recovers the input position of each record.
//
// Attempted queries always form the prefix [0, Attempted) of the input, so the matched
// positions are that prefix minus the failed ones.
func matchedPositions(res *models.BatchResult) []int {
	failed := make(map[int]bool, len(res.Failures))
	for _, f := range res.Failures {
		failed[f.Index] = true
	}

	positions := make([]int, 0, len(res.Records))
	for i := 0; len(positions) < len(res.Records); i++ {
		if !failed[i] {
			positions = append(positions, i)
		}
	}
	return positions
}
