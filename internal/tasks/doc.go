// Package tasks orchestrates movie list curation with real-time progress reporting.
//
// # Core Operations
//
// [CurationEngine] exposes the operations a curator performs on a list:
//
//  1. [CurationEngine.Enrich] : Resolve a batch of free-text titles
//     - Deduplicates titles case-insensitively
//     - Looks each one up through the catalog (which shares one rate-limited dispatcher)
//     - Aborts on a rejected credential, records every other miss
//     - Appends matches to the list, skipping movies already present
//
//  2. [CurationEngine.Reorder] : Move one movie next to another
//     - Reconciles the move against the canonical list when a genre filter is active
//     - Sends the resulting view order to the backend
//
//  3. [CurationEngine.SaveAll] : Send the current view as one numbered batch
//
// # List State
//
// [MovieList] owns the canonical order and the genre filter. It only ever swaps in slices produced
// by the reorder package, so a reorder can neither drop nor duplicate a movie.
//
// # Progress Reporting
//
// All long operations use non-blocking channels for progress updates.
// Updates use select with default to prevent blocking.
//
// # Persistence
//
// The optional [MovieCacher] and [ListStore] interfaces let the engine mirror lookups and list order
// to local storage (repositories.CurationStore). Cache failures are logged and ignored.
package tasks
