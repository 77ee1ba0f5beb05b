package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/marquee/internal/models"
)

// CurationStore implements tasks.MovieCacher and tasks.ListStore on top of the movie and list tables.
type CurationStore struct {
	db     *sql.DB
	movies *MovieRepository
	lists  *ListRepository
}

// NewCurationStore creates a new CurationStore with the given database connection
func NewCurationStore(db *sql.DB) *CurationStore {
	return &CurationStore{db: db, movies: NewMovieRepository(db), lists: NewListRepository(db)}
}

func (s *CurationStore) Movies() *MovieRepository { return s.movies }
func (s *CurationStore) Lists() *ListRepository   { return s.lists }

// CacheMovie stores or refreshes a catalog lookup.
func (s *CurationStore) CacheMovie(language string, m models.Movie) error {
	if _, err := s.movies.Upsert(language, m); err != nil {
		return fmt.Errorf("failed to cache movie: %w", err)
	}
	return nil
}

// SaveOrder caches every movie and replaces the stored order in one transaction.
func (s *CurationStore) SaveOrder(language string, movies []models.Movie) error {
	return inTx(s.db, func(tx *sql.Tx) error {
		ids := make([]string, len(movies))
		for i, m := range movies {
			if _, err := upsertMovie(tx, language, m); err != nil {
				return fmt.Errorf("failed to cache %s: %w", m.ID, err)
			}
			ids[i] = m.ID
		}
		return saveOrder(tx, language, ids)
	})
}

// LoadOrder returns the stored list for language.
func (s *CurationStore) LoadOrder(language string) ([]models.Movie, error) {
	return s.lists.LoadOrder(language)
}
