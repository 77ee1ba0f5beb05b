package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

var movieFields = []string{
	"id", "sequence", "catalog_id", "language", "title", "overview", "cast_json", "genres_json", "poster_url",
	"release_date", "rating", "trailer_url", "director", "runtime_minutes", "created_at", "updated_at", "deleted_at",
}

var movieColumns = prefixed("")

// prefixed lists the movie columns qualified with a table alias.
func prefixed(alias string) string {
	cols := make([]string, len(movieFields))
	for i, f := range movieFields {
		cols[i] = alias + f
	}
	return strings.Join(cols, ", ")
}

// MovieRepository implements models.Repository[*models.PersistedMovie] for catalog caching.
//
// Rows are unique per catalog id and language, so the same film fetched in two languages is cached twice.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts a new [models.PersistedMovie] into the database with generated ID and sequence
func (r *MovieRepository) Create(movie *models.PersistedMovie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "movies")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	movie.SetID(shared.GenerateID())
	movie.SetSequence(sequence)

	return insertMovie(r.db, movie)
}

// Get retrieves a movie by row ID, excluding soft-deleted movies
func (r *MovieRepository) Get(id string) (*models.PersistedMovie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = ? AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}
	return movie, err
}

// GetByCatalogID retrieves the cached record for a catalog id in one language
func (r *MovieRepository) GetByCatalogID(catalogID, language string) (*models.PersistedMovie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE catalog_id = ? AND language = ? AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(query, catalogID, language))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s (%s)", shared.ErrMovieNotFound, catalogID, language)
	}
	return movie, err
}

// Update modifies an existing movie in the database
func (r *MovieRepository) Update(movie *models.PersistedMovie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	movie.SetUpdatedAt(now)

	m := movie.Movie()
	cast, genres, err := encodeLists(m)
	if err != nil {
		return err
	}

	query := `
		UPDATE movies
		SET title = ?, overview = ?, cast_json = ?, genres_json = ?, poster_url = ?, release_date = ?,
			rating = ?, trailer_url = ?, director = ?, runtime_minutes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		m.Title,
		m.Overview,
		cast,
		genres,
		m.PosterURL,
		m.ReleaseDate,
		m.Rating,
		m.TrailerURL,
		m.Director,
		m.RuntimeMinutes,
		now,
		movie.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s not found or already deleted", shared.ErrMovieNotFound, movie.ID())
	}

	return nil
}

// Delete soft-deletes a movie by row ID
func (r *MovieRepository) Delete(id string) error {
	query := `
		UPDATE movies
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s not found or already deleted", shared.ErrMovieNotFound, id)
	}

	return nil
}

// List retrieves all movies matching the given criteria, excluding soft-deleted movies.
//
// Supported criteria are "language" and "title" (exact match).
func (r *MovieRepository) List(criteria map[string]any) ([]*models.PersistedMovie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE deleted_at IS NULL`

	args := []any{}

	if language, ok := criteria["language"].(string); ok && language != "" {
		query += " AND language = ?"
		args = append(args, language)
	}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title = ?"
		args = append(args, title)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []*models.PersistedMovie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// Upsert stores m for language, refreshing the cached record and reviving it if it was deleted.
func (r *MovieRepository) Upsert(language string, m models.Movie) (*models.PersistedMovie, error) {
	var movie *models.PersistedMovie
	err := inTx(r.db, func(tx *sql.Tx) error {
		var err error
		movie, err = upsertMovie(tx, language, m)
		return err
	})
	return movie, err
}

func upsertMovie(q querier, language string, m models.Movie) (*models.PersistedMovie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE catalog_id = ? AND language = ?`

	existing, err := scanMovie(q.QueryRow(query, m.ID, language))
	if errors.Is(err, sql.ErrNoRows) {
		sequence, err := nextSequence(q, "movies")
		if err != nil {
			return nil, fmt.Errorf("failed to generate sequence: %w", err)
		}

		movie := models.NewPersistedMovie(sequence, language, m)
		if err := movie.Validate(); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		movie.SetID(shared.GenerateID())

		return movie, insertMovie(q, movie)
	}
	if err != nil {
		return nil, err
	}

	existing.SetMovie(m)
	if err := existing.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cast, genres, err := encodeLists(m)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = q.Exec(`
		UPDATE movies
		SET title = ?, overview = ?, cast_json = ?, genres_json = ?, poster_url = ?, release_date = ?,
			rating = ?, trailer_url = ?, director = ?, runtime_minutes = ?, updated_at = ?, deleted_at = NULL
		WHERE id = ?
	`,
		m.Title, m.Overview, cast, genres, m.PosterURL, m.ReleaseDate,
		m.Rating, m.TrailerURL, m.Director, m.RuntimeMinutes, now, existing.ID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh movie: %w", err)
	}

	existing.SetUpdatedAt(now)
	existing.SetDeletedAt(nil)
	return existing, nil
}

func insertMovie(q querier, movie *models.PersistedMovie) error {
	m := movie.Movie()
	cast, genres, err := encodeLists(m)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO movies (id, sequence, catalog_id, language, title, overview, cast_json, genres_json, poster_url,
			release_date, rating, trailer_url, director, runtime_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.Exec(query,
		movie.ID(),
		movie.Sequence(),
		movie.CatalogID(),
		movie.Language(),
		m.Title,
		m.Overview,
		cast,
		genres,
		m.PosterURL,
		m.ReleaseDate,
		m.Rating,
		m.TrailerURL,
		m.Director,
		m.RuntimeMinutes,
		movie.CreatedAt(),
		movie.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}

	return nil
}

// scanMovie scans a single row into a [models.PersistedMovie]. [sql.ErrNoRows] is returned unwrapped.
func scanMovie(row scanner) (*models.PersistedMovie, error) {
	var (
		id        string
		sequence  int
		language  string
		cast      string
		genres    string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
		m         models.Movie
	)

	err := row.Scan(
		&id, &sequence, &m.ID, &language, &m.Title, &m.Overview, &cast, &genres, &m.PosterURL,
		&m.ReleaseDate, &m.Rating, &m.TrailerURL, &m.Director, &m.RuntimeMinutes, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	if err := json.Unmarshal([]byte(cast), &m.Cast); err != nil {
		return nil, fmt.Errorf("failed to decode cast for %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(genres), &m.Genres); err != nil {
		return nil, fmt.Errorf("failed to decode genres for %s: %w", m.ID, err)
	}

	movie := models.NewPersistedMovie(sequence, language, m)
	movie.SetID(id)
	movie.SetCreatedAt(createdAt)
	movie.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		movie.SetDeletedAt(&deletedAt.Time)
	}

	return movie, nil
}

func encodeLists(m models.Movie) (cast, genres string, err error) {
	c, err := shared.MarshalJSON(orEmpty(m.Cast), false)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode cast: %w", err)
	}
	g, err := shared.MarshalJSON(orEmpty(m.Genres), false)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode genres: %w", err)
	}
	return string(c), string(g), nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
