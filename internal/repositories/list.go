package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/marquee/internal/models"
)

// ListRepository persists the canonical order of the curated list, one list per language.
type ListRepository struct {
	db *sql.DB
}

// NewListRepository creates a new ListRepository with the given database connection
func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

// SaveOrder replaces the stored order for language with catalogIDs.
//
// Entries that were already listed keep their added_at timestamp.
func (r *ListRepository) SaveOrder(language string, catalogIDs []string) error {
	return inTx(r.db, func(tx *sql.Tx) error {
		return saveOrder(tx, language, catalogIDs)
	})
}

// LoadOrder returns the cached movies of the list in position order.
//
// Entries whose movie is missing or soft-deleted are skipped.
func (r *ListRepository) LoadOrder(language string) ([]models.Movie, error) {
	query := `
		SELECT ` + prefixed("m.") + `
		FROM list_entries e
		JOIN movies m ON m.catalog_id = e.catalog_id AND m.language = e.language
		WHERE e.language = ? AND m.deleted_at IS NULL
		ORDER BY e.position ASC
	`

	rows, err := r.db.Query(query, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query list: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie.Movie())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// Positions returns the stored catalog ids for language in order.
func (r *ListRepository) Positions(language string) ([]string, error) {
	return positions(r.db, language)
}

// Clear removes every entry for language.
func (r *ListRepository) Clear(language string) error {
	if _, err := r.db.Exec(`DELETE FROM list_entries WHERE language = ?`, language); err != nil {
		return fmt.Errorf("failed to clear list: %w", err)
	}
	return nil
}

func positions(q querier, language string) ([]string, error) {
	rows, err := q.Query(`SELECT catalog_id FROM list_entries WHERE language = ? ORDER BY position ASC`, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query list: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan list entry: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

func saveOrder(q querier, language string, catalogIDs []string) error {
	added, err := addedTimes(q, language)
	if err != nil {
		return err
	}

	if _, err := q.Exec(`DELETE FROM list_entries WHERE language = ?`, language); err != nil {
		return fmt.Errorf("failed to clear list: %w", err)
	}

	now := time.Now()
	for i, id := range catalogIDs {
		at, ok := added[id]
		if !ok {
			at = now
		}

		_, err := q.Exec(
			`INSERT INTO list_entries (language, catalog_id, position, added_at) VALUES (?, ?, ?, ?)`,
			language, id, i, at,
		)
		if err != nil {
			return fmt.Errorf("failed to insert list entry %s: %w", id, err)
		}
	}

	return nil
}

// addedTimes reads every added_at for language before the rows are replaced.
func addedTimes(q querier, language string) (map[string]time.Time, error) {
	rows, err := q.Query(`SELECT catalog_id, added_at FROM list_entries WHERE language = ?`, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query list: %w", err)
	}
	defer rows.Close()

	added := map[string]time.Time{}
	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("failed to scan list entry: %w", err)
		}
		added[id] = at
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return added, nil
}
