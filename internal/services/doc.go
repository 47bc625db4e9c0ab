// Package services implements the upstream sources a search query is resolved against.
//
// # Source Interfaces
//
// The pipeline depends on three small interfaces so each upstream can be swapped or faked:
//
//   - [MetadataSource] : catalog search and song details
//   - [ContentSource] : lyrics extraction from a song page
//   - [LinkSource] : best-effort video link lookup
//
// # Genius Implementation
//
// [GeniusService] implements both [MetadataSource] and [ContentSource].
//
// Catalog calls go to https://api.genius.com with a bearer token supplied by an [oauth2.StaticTokenSource].
// Responses carry a meta envelope; anything other than meta.status 200 is treated as a rejection.
//
// Lyrics are read from the public song page. Every element marked data-lyrics-container="true" contributes
// its text nodes in document order, then [CleanLyrics] strips bracketed annotations and blank lines.
//
// # YouTube Implementation
//
// [YouTubeService] resolves a watch URL through the Data API v3 when an API key is configured,
// or by reading the first video id embedded in the public results page.
//
// # HTTP Plumbing
//
// All services share [APIService], which adds:
//   - a per-attempt timeout
//   - pacing through a [rate.Limiter]
//   - bounded retry with exponential backoff for transport failures and 429/5xx responses
//
// # Error Handling
//
// Services return classified errors from the shared package:
//   - [shared.ErrTransport] : connection failure or timeout ([shared.ErrTimeout] is wrapped alongside)
//   - [shared.ErrUpstreamRejected] : non-2xx status or a failed meta envelope
//   - [shared.ErrMalformedResponse] : undecodable payload
//   - [shared.ErrNoContent], [shared.ErrNoMatch] : nothing to extract
//
// Callers decide whether a failure is fatal; the services never panic on upstream data.
package services
