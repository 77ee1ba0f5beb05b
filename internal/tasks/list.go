package tasks

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/reorder"
	"github.com/desertthunder/marquee/internal/shared"
)

func movieKey(m models.Movie) string { return m.ID }

// MovieList holds the canonical ordering of a curated list and an optional genre filter.
//
// The canonical slice is never edited in place: every change swaps in a fresh slice, so
// values returned by [MovieList.Movies] and [MovieList.View] stay valid after later edits.
type MovieList struct {
	mu     sync.RWMutex
	movies []models.Movie
	genres []string
	logger *log.Logger
}

// NewMovieList creates a list from movies, dropping repeated ids.
func NewMovieList(movies []models.Movie, logger *log.Logger) *MovieList {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	l := &MovieList{logger: shared.WithLogger(logger, "component", "list")}
	l.Set(movies)
	return l
}

// Set replaces the whole list.
func (l *MovieList) Set(movies []models.Movie) {
	unique, dupes := reorder.Dedupe(movies, movieKey)
	if dupes > 0 {
		l.logger.Warn("duplicate movies dropped", "count", dupes)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.movies = unique
}

// Movies returns the canonical ordering.
func (l *MovieList) Movies() []models.Movie {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.movies)
}

// View returns the movies that pass the genre filter, in canonical order.
func (l *MovieList) View() []models.Movie {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view()
}

func (l *MovieList) view() []models.Movie {
	if len(l.genres) == 0 {
		return slices.Clone(l.movies)
	}
	return reorder.Filter(l.movies, func(m models.Movie) bool { return m.HasAnyGenre(l.genres...) })
}

func (l *MovieList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.movies)
}

// SetGenres replaces the filter; no genres clears it.
func (l *MovieList) SetGenres(genres ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.genres = slices.Clone(genres)
}

func (l *MovieList) Genres() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.genres)
}

// FilterActive reports whether the view differs from the canonical list by construction.
func (l *MovieList) FilterActive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.genres) > 0
}

// Get returns the movie with id.
func (l *MovieList) Get(id string) (models.Movie, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := reorder.IndexOf(l.movies, movieKey, id)
	if i < 0 {
		return models.Movie{}, false
	}
	return l.movies[i], true
}

// Move places moved next to target and returns the new view.
//
// Unfiltered lists use a positional move followed by a duplicate check. Filtered lists are
// reconciled by key so movies hidden by the filter keep their places.
func (l *MovieList) Move(moved, target string) ([]models.Movie, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	from := reorder.IndexOf(l.movies, movieKey, moved)
	if from < 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, moved)
	}

	to := reorder.IndexOf(l.movies, movieKey, target)
	if to < 0 {
		l.logger.Warn("move target missing, appending", "moved", moved, "target", target)
	}

	filtered := len(l.genres) > 0
	if !filtered && to >= 0 {
		next, dupes := reorder.SafeMove(l.movies, movieKey, from, to)
		if dupes > 0 {
			l.logger.Error("duplicates removed after move", "count", dupes, "moved", moved)
		}
		l.movies = next
	} else {
		l.movies = reorder.Reconcile(l.movies, movieKey, moved, target, filtered)
	}

	return l.view(), nil
}

// MoveIndex moves by positions in the current view.
func (l *MovieList) MoveIndex(from, to int) ([]models.Movie, error) {
	view := l.View()
	if from < 0 || from >= len(view) || to < 0 || to >= len(view) {
		return nil, fmt.Errorf("%w: positions %d and %d in a view of %d", shared.ErrInvalidArgument, from, to, len(view))
	}
	if from == to {
		return view, nil
	}
	return l.Move(view[from].ID, view[to].ID)
}

// Add appends m to the canonical list.
func (l *MovieList) Add(m models.Movie) error {
	if err := m.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if models.Exists(l.movies, m.ID) {
		return fmt.Errorf("%w: %s (%s)", shared.ErrDuplicateMovie, m.Title, m.ID)
	}
	l.movies = append(slices.Clip(l.movies), m)
	return nil
}

// Remove deletes the movie with id.
func (l *MovieList) Remove(id string) (models.Movie, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := reorder.IndexOf(l.movies, movieKey, id)
	if i < 0 {
		return models.Movie{}, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}

	removed := l.movies[i]
	l.movies = slices.Delete(slices.Clone(l.movies), i, i+1)
	return removed, nil
}

// Replace swaps in an edited movie at the same position.
func (l *MovieList) Replace(m models.Movie) error {
	if err := m.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := reorder.IndexOf(l.movies, movieKey, m.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, m.ID)
	}

	next := slices.Clone(l.movies)
	next[i] = m
	l.movies = next
	return nil
}

// Batch builds the save payload from the current view.
func (l *MovieList) Batch(language string, now time.Time) models.SaveBatch {
	return models.NewSaveBatch(l.View(), language, now)
}
