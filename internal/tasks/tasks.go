// package tasks implements query resolution and batch orchestration.
//
// The core abstractions are [Pipeline], which resolves one query, and [BatchRunner], which drives it over a list.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import "sort"

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update
	}
}

// sendOutcome delivers a per-query result update, waiting for the receiver if the channel is full.
// Consumers build live counters from these, so they are never dropped; callers must drain progress until Run returns.
func sendOutcome(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	progress <- update
}

// sortByIndex orders outcomes by the input position of their query.
func sortByIndex(outcomes []outcomeAt) []outcomeAt {
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].index < outcomes[j].index
	})
	return outcomes
}
