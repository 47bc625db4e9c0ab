// Package tasks turns a list of free-text song queries into song records with real-time progress reporting.
//
// # Resolution Pipeline
//
// [Pipeline.Resolve] runs four stages for one query:
//
//  1. Search the catalog; the first candidate wins
//  2. Fetch details for that candidate
//  3. Fetch lyrics for the detail URL
//  4. Look up a video link for title and artist
//
// Every invocation ends in one of two states. A query is Unmatched when the search yields no
// candidate or the detail fetch fails; later stages do not run. Otherwise it is Matched, even
// when lyrics or the video link could not be found (those fields hold [models.Unavailable]).
//
// # Batch Runner
//
// [BatchRunner.Run] drives the pipeline over every query and aggregates a [models.BatchResult].
//   - A failed or panicking query is counted and the batch moves on
//   - Cancelling the context stops new queries from starting; in-flight queries finish
//   - With more than one worker, queries resolve concurrently and records keep input order
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Stage updates use select with default and are dropped when the channel is full. QueryMatched and QueryUnmatched
// updates are always delivered, so callers must drain the channel until the run returns.
package tasks
