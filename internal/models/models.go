// package models defines the data model for the lyrics resolution pipeline
package models

import "strings"

// Unavailable is the sentinel stored in any [Record] field whose data could not be obtained.
const Unavailable = "N/A"

// Candidate is a single search hit before detail enrichment.
type Candidate struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
}

// Record is the fully-assembled output unit for one resolved query.
//
// Every field holds either real data or [Unavailable]; none is ever empty once
// the record leaves the pipeline.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	URL         string `json:"url"`
	Genres      string `json:"genres"`
	Label       string `json:"label"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date"`
	Lyrics      string `json:"lyrics"`
	VideoURL    string `json:"video_url"`
}

// NewRecord returns a Record with every field set to [Unavailable].
func NewRecord() Record {
	return Record{
		ID:          Unavailable,
		Title:       Unavailable,
		Artist:      Unavailable,
		URL:         Unavailable,
		Genres:      Unavailable,
		Label:       Unavailable,
		Album:       Unavailable,
		ReleaseDate: Unavailable,
		Lyrics:      Unavailable,
		VideoURL:    Unavailable,
	}
}

// OrUnavailable returns s, or [Unavailable] when s is blank.
func OrUnavailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unavailable
	}
	return s
}

// IsUnavailable reports whether s is the sentinel.
func IsUnavailable(s string) bool {
	return s == Unavailable
}

// Normalize replaces any blank field with [Unavailable].
func (r Record) Normalize() Record {
	r.ID = OrUnavailable(r.ID)
	r.Title = OrUnavailable(r.Title)
	r.Artist = OrUnavailable(r.Artist)
	r.URL = OrUnavailable(r.URL)
	r.Genres = OrUnavailable(r.Genres)
	r.Label = OrUnavailable(r.Label)
	r.Album = OrUnavailable(r.Album)
	r.ReleaseDate = OrUnavailable(r.ReleaseDate)
	r.Lyrics = OrUnavailable(r.Lyrics)
	r.VideoURL = OrUnavailable(r.VideoURL)
	return r
}

// Columns is the fixed column set used by every exporter, in order.
var Columns = []string{"Genre", "Artist", "Song", "Lyrics", "Genius URL", "YouTube URL", "Label"}

// Row maps the record onto [Columns].
func (r Record) Row() []string {
	return []string{r.Genres, r.Artist, r.Title, r.Lyrics, r.URL, r.VideoURL, r.Label}
}
