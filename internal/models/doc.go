// Package models defines the value types that flow through the lyrics resolution pipeline.
//
//   - [Candidate] : a search hit from the catalog, used only to pick the song to enrich
//   - [Record] : the exported unit, one per matched query
//   - [Outcome] : the Matched/Unmatched result of resolving one query
//   - [BatchResult] : the accumulator owned by the batch runner
//
// Missing data is never represented by empty strings. Every [Record] field holds
// either real data or the [Unavailable] sentinel, so exporters can write rows
// without special-casing absent values.
package models
