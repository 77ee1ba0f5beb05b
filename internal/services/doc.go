// Package services defines the [Catalog] and [Backend] interfaces and implements them for TMDB and the list backend.
//
// # Catalog Implementation
//
// [CatalogService] never calls TMDB directly. Each HTTP request is wrapped in a closure and
// submitted to a shared dispatcher, which admits at most a fixed number of calls per rolling
// window and retries rate-limited ones with a growing delay.
//
// Authentication uses a v4 read access token through [oauth2.StaticTokenSource] when one is
// configured, and the v3 api_key query parameter otherwise.
//
// # Backend Implementation
//
// [APIService] sends list edits to the backend as JSON. Requests are paced with a
// [rate.Limiter] so a burst of edits cannot flood the backend.
//
// # Error Handling
//
// Catalog HTTP statuses become typed errors from the shared package:
//   - [shared.ErrRateLimited] : 429, retried by the dispatcher
//   - [shared.ErrUnauthorized] : 401, surfaced to the caller as an authorization error
//   - [shared.ErrMovieNotFound] : 404
//   - [shared.ErrAPIRequest] : any other non-2xx status
//
// Only authorization failures reach callers of [Catalog]; every other failure is logged and
// reported as "no data".
//
// # API Mappings
//
// TMDB movie details map onto [models.Movie]: the first five billed cast members, the first
// crew member whose job is Director (or "Unknown"), the first YouTube trailer as a watch URL,
// and the poster path joined to the image base URL.
package services
