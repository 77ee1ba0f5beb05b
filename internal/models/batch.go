package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/marquee/internal/shared"
)

// OrderedMovie is a [Movie] annotated with its 1-based position in a save batch.
type OrderedMovie struct {
	Movie
	Order int `json:"order"`
}

// SaveBatch is the payload sent to the backend when the whole list is saved.
type SaveBatch struct {
	Movies      []OrderedMovie `json:"movies"`
	Language    string         `json:"language"`
	TotalMovies int            `json:"totalMovies"`
	Timestamp   time.Time      `json:"timestamp"`
}

// NewSaveBatch numbers movies in slice order starting at 1.
func NewSaveBatch(movies []Movie, language string, now time.Time) SaveBatch {
	ordered := make([]OrderedMovie, len(movies))
	for i, m := range movies {
		ordered[i] = OrderedMovie{Movie: m, Order: i + 1}
	}
	return SaveBatch{
		Movies:      ordered,
		Language:    language,
		TotalMovies: len(ordered),
		Timestamp:   now.UTC(),
	}
}

// Validate checks that every order equals its position plus one and that each movie is valid.
func (b SaveBatch) Validate() error {
	if b.TotalMovies != len(b.Movies) {
		return fmt.Errorf("%w: total %d does not match %d movies", shared.ErrInvalidInput, b.TotalMovies, len(b.Movies))
	}
	for i, m := range b.Movies {
		if m.Order != i+1 {
			return fmt.Errorf("%w: movie %s at position %d has order %d", shared.ErrInvalidInput, m.ID, i, m.Order)
		}
		if err := m.Movie.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ReorderRequest carries the ids of the current view in display order.
type ReorderRequest struct {
	MovieIDs  []string  `json:"movieIds"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReorderRequest(movies []Movie, now time.Time) ReorderRequest {
	ids := make([]string, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ReorderRequest{MovieIDs: ids, Timestamp: now.UTC()}
}

// BackendResponse is the envelope returned by every backend write.
type BackendResponse struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}
