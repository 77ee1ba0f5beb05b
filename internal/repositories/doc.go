// Package repositories implements SQLite persistence for cached movies and list order.
//
// Key Implementations:
//   - [MovieRepository] : Catalog records cached per catalog id and language, with soft deletes
//   - [ListRepository] : Canonical list positions per language
//   - [CurationStore] : Adapter that lets the curation engine cache movies and persist order
//
// Sequence numbers provide stable, human-readable ordering (e.g., movie #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
