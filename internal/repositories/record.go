package repositories

import (
	"fmt"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// RecordRepository implements persistence for [models.Record] rows of a run.
type RecordRepository struct {
	db Queryer
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db Queryer) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create stores rec at position within runID. Blank fields are stored as [models.Unavailable].
func (r *RecordRepository) Create(runID string, position int, rec models.Record) error {
	rec = rec.Normalize()

	query := `
		INSERT INTO records (
			id, run_id, position, genius_id, title, artist, url, genres,
			label, album, release_date, lyrics, video_url, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		shared.GenerateID(),
		runID,
		position,
		rec.ID,
		rec.Title,
		rec.Artist,
		rec.URL,
		rec.Genres,
		rec.Label,
		rec.Album,
		rec.ReleaseDate,
		rec.Lyrics,
		rec.VideoURL,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// ListByRun returns the records of runID in position order.
func (r *RecordRepository) ListByRun(runID string) ([]models.Record, error) {
	query := `
		SELECT genius_id, title, artist, url, genres, label, album, release_date, lyrics, video_url
		FROM records
		WHERE run_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var rec models.Record
		err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&rec.Artist,
			&rec.URL,
			&rec.Genres,
			&rec.Label,
			&rec.Album,
			&rec.ReleaseDate,
			&rec.Lyrics,
			&rec.VideoURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}
