package tasks

import (
	"fmt"

	"github.com/desertthunder/lyrx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Searching Phase = iota
	FetchDetails
	FetchLyrics
	FetchVideo
	QueryMatched
	QueryUnmatched
	BatchDone
)

func (p Phase) String() string {
	switch p {
	case Searching:
		return "searching"
	case FetchDetails:
		return "fetch_details"
	case FetchLyrics:
		return "fetch_lyrics"
	case FetchVideo:
		return "fetch_video"
	case QueryMatched:
		return "matched"
	case QueryUnmatched:
		return "unmatched"
	case BatchDone:
		return "done"
	default:
		return ""
	}
}

// position locates a query within its batch.
type position struct {
	step  int
	total int
}

func searchingUpdate(pos position, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Searching,
		Step:    pos.step,
		Total:   pos.total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", pos.step, pos.total, query),
	}
}

func detailsUpdate(pos position, c models.Candidate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    pos.step,
		Total:   pos.total,
		Message: fmt.Sprintf("[%d/%d] Found: %s - %s", pos.step, pos.total, c.Artist, c.Title),
		Data:    c,
	}
}

func lyricsUpdate(pos position, rec models.Record) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Step:    pos.step,
		Total:   pos.total,
		Message: fmt.Sprintf("[%d/%d] Fetching lyrics: %s", pos.step, pos.total, rec.Title),
	}
}

func videoUpdate(pos position, rec models.Record) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchVideo,
		Step:    pos.step,
		Total:   pos.total,
		Message: fmt.Sprintf("[%d/%d] Looking up video: %s", pos.step, pos.total, rec.Title),
	}
}

func matchedUpdate(pos position, rec models.Record) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueryMatched,
		Step:    pos.step,
		Total:   pos.total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", pos.step, pos.total, rec.Artist, rec.Title),
		Data:    rec,
	}
}

func unmatchedUpdate(pos position, f models.QueryFailure) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✗ %s: %s", pos.step, pos.total, f.Query, f.Reason)
	if f.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, f.Err)
	}
	return ProgressUpdate{
		Phase:   QueryUnmatched,
		Step:    pos.step,
		Total:   pos.total,
		Message: msg,
		Data:    f,
	}
}

func batchDoneUpdate(res *models.BatchResult) ProgressUpdate {
	msg := fmt.Sprintf("Done: %d matched, %d failed", res.SuccessCount, res.FailureCount)
	if res.Interrupted {
		msg = fmt.Sprintf("Interrupted after %d of %d: %d matched, %d failed", res.Attempted(), res.Total, res.SuccessCount, res.FailureCount)
	}
	return ProgressUpdate{
		Phase:   BatchDone,
		Step:    res.Attempted(),
		Total:   res.Total,
		Message: msg,
		Data:    res,
	}
}
