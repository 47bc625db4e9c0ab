// package services defines the upstream sources used to resolve a search query into a song record
//
// Genius (catalog and lyrics pages), YouTube (video links)
package services

import (
	"context"

	"github.com/desertthunder/lyrx/internal/models"
)

// MetadataSource finds songs in a catalog and fetches their details.
type MetadataSource interface {
	// Search returns up to limit candidates for the free-text query.
	// Returns an empty slice and a classified error on any failure.
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)

	// SongDetails fetches the full record for a catalog identifier.
	// Optional fields that the catalog omits are set to [models.Unavailable].
	SongDetails(ctx context.Context, id string) (*models.Record, error)
}

// ContentSource extracts cleaned lyrics from a song page.
type ContentSource interface {
	// Lyrics returns the cleaned lyrics found at pageURL, or "" and an error.
	Lyrics(ctx context.Context, pageURL string) (string, error)
}

// LinkSource finds a video link for a song.
type LinkSource interface {
	// VideoLink returns a watch URL for the best match of title and artist, or "" and an error.
	VideoLink(ctx context.Context, title, artist string) (string, error)
}

