// Package models defines domain entities and persistence interfaces for the marquee curation service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs exchanged with the catalog and the backend
//   - [Movie] : Enriched movie record, keyed by catalog id
//   - [Genre], [Language], [Suggestion] : Catalog reference data
//   - [SaveBatch] : Whole-list save payload with 1-based order fields
//   - [ReorderRequest] : Display order of the current view
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedMovie] : Cached catalog records, one per catalog id and language
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
