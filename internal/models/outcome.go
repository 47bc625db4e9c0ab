package models

import "time"

// State is the terminal state of one pipeline invocation.
type State int

const (
	Unmatched State = iota
	Matched
)

func (s State) String() string {
	switch s {
	case Matched:
		return "matched"
	case Unmatched:
		return "unmatched"
	default:
		return ""
	}
}

// Reason explains an [Unmatched] outcome.
type Reason int

const (
	NoReason Reason = iota
	NoCandidates
	DetailsUnavailable
	Panicked
)

func (r Reason) String() string {
	switch r {
	case NoCandidates:
		return "no candidates"
	case DetailsUnavailable:
		return "detail fetch failed"
	case Panicked:
		return "unexpected error"
	default:
		return ""
	}
}

// Outcome is the tagged result of resolving one query.
//
// Record is only meaningful when State is [Matched].
type Outcome struct {
	Query  string
	State  State
	Reason Reason
	Record Record
	Err    error // Underlying cause of an Unmatched outcome, if any
}

// MatchedOutcome builds a [Matched] outcome.
func MatchedOutcome(query string, rec Record) Outcome {
	return Outcome{Query: query, State: Matched, Record: rec}
}

// UnmatchedOutcome builds an [Unmatched] outcome.
func UnmatchedOutcome(query string, reason Reason, err error) Outcome {
	return Outcome{Query: query, State: Unmatched, Reason: reason, Err: err}
}

// QueryFailure records a query that ended [Unmatched].
type QueryFailure struct {
	Index  int    // Position of the query in the input list
	Query  string // The query text
	Reason Reason // Why it failed
	Err    error  // Underlying cause, if any
}

// BatchResult aggregates the outcomes of a batch run.
//
// Records are ordered by the input position of the queries that matched.
type BatchResult struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Records      []Record
	Failures     []QueryFailure
	SuccessCount int
	FailureCount int
	Total        int  // Number of queries supplied
	Interrupted  bool // Set when the run stopped before exhausting the query list
}

// Attempted returns the number of queries that reached a terminal state.
func (b *BatchResult) Attempted() int {
	return b.SuccessCount + b.FailureCount
}

// SuccessRate returns the share of attempted queries that matched, as a percentage.
func (b *BatchResult) SuccessRate() float64 {
	if b.Attempted() == 0 {
		return 0
	}
	return float64(b.SuccessCount) / float64(b.Attempted()) * 100
}
