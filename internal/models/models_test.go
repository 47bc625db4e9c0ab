package models

import "testing"

func TestRecord(t *testing.T) {
	t.Run("NewRecord is all sentinel", func(t *testing.T) {
		r := NewRecord()
		for i, v := range []string{r.ID, r.Title, r.Artist, r.URL, r.Genres, r.Label, r.Album, r.ReleaseDate, r.Lyrics, r.VideoURL} {
			if v != Unavailable {
				t.Errorf("field %d = %q, want %q", i, v, Unavailable)
			}
		}
	})

	t.Run("Normalize fills blanks", func(t *testing.T) {
		r := Record{Title: "Song A", Artist: "Artist1", Lyrics: "  "}.Normalize()

		if r.Title != "Song A" || r.Artist != "Artist1" {
			t.Errorf("expected populated fields to survive, got %q / %q", r.Title, r.Artist)
		}
		if r.Lyrics != Unavailable {
			t.Errorf("expected whitespace lyrics to become sentinel, got %q", r.Lyrics)
		}
		if r.VideoURL != Unavailable || r.Label != Unavailable {
			t.Errorf("expected empty fields to become sentinel")
		}
	})

	t.Run("Row follows Columns", func(t *testing.T) {
		r := Record{
			Genres:   "Bachata",
			Artist:   "Aventura",
			Title:    "Obsesión",
			Lyrics:   "line",
			URL:      "https://genius.com/x",
			VideoURL: "https://www.youtube.com/watch?v=abc",
			Label:    "Premium Latin",
		}
		row := r.Row()
		if len(row) != len(Columns) {
			t.Fatalf("row has %d cells, want %d", len(row), len(Columns))
		}
		want := []string{"Bachata", "Aventura", "Obsesión", "line", "https://genius.com/x", "https://www.youtube.com/watch?v=abc", "Premium Latin"}
		for i := range want {
			if row[i] != want[i] {
				t.Errorf("row[%d] (%s) = %q, want %q", i, Columns[i], row[i], want[i])
			}
		}
	})
}

func TestOutcome(t *testing.T) {
	t.Run("matched", func(t *testing.T) {
		o := MatchedOutcome("q", Record{Title: "t"})
		if o.State != Matched || o.Reason != NoReason || o.Record.Title != "t" {
			t.Errorf("unexpected outcome: %+v", o)
		}
	})

	t.Run("unmatched", func(t *testing.T) {
		o := UnmatchedOutcome("q", NoCandidates, nil)
		if o.State != Unmatched || o.Reason.String() != "no candidates" {
			t.Errorf("unexpected outcome: %+v", o)
		}
	})

	t.Run("state strings", func(t *testing.T) {
		if Matched.String() != "matched" || Unmatched.String() != "unmatched" {
			t.Errorf("unexpected state strings %q %q", Matched, Unmatched)
		}
	})
}

func TestBatchResult(t *testing.T) {
	b := &BatchResult{SuccessCount: 3, FailureCount: 1, Total: 5}

	if b.Attempted() != 4 {
		t.Errorf("Attempted() = %d, want 4", b.Attempted())
	}
	if b.SuccessRate() != 75 {
		t.Errorf("SuccessRate() = %v, want 75", b.SuccessRate())
	}

	empty := &BatchResult{}
	if empty.SuccessRate() != 0 {
		t.Errorf("SuccessRate() on empty = %v, want 0", empty.SuccessRate())
	}
}
