// package services defines interfaces for the HTTP APIs marquee talks to
//
// The movie catalog (TMDB) and the list backend
package services

import (
	"context"

	"github.com/desertthunder/marquee/internal/models"
)

// Catalog defines lookups against a movie catalog.
//
// Every method returns nil or an empty slice, not an error, when the catalog had no data
// or the call failed for a reason other than a rejected credential.
type Catalog interface {
	// SearchMovie resolves a free-text title to the details of the best match.
	SearchMovie(ctx context.Context, title, language string) (*models.Movie, error)

	// MovieDetails fetches a movie with credits and videos by catalog id.
	MovieDetails(ctx context.Context, id, language string) (*models.Movie, error)

	// Suggestions returns up to five lightweight matches for query.
	Suggestions(ctx context.Context, query, language string) ([]models.Suggestion, error)

	// Genres lists the catalog's movie genres.
	Genres(ctx context.Context, language string) ([]models.Genre, error)

	// Languages lists the languages the catalog can localize into.
	Languages(ctx context.Context) ([]models.Language, error)
}

// Backend defines the writes the list backend accepts.
type Backend interface {
	SaveMovie(ctx context.Context, movie models.Movie) (*models.BackendResponse, error)
	SaveAll(ctx context.Context, batch models.SaveBatch) (*models.BackendResponse, error)
	DeleteMovie(ctx context.Context, id string) (*models.BackendResponse, error)
	UpdateOrder(ctx context.Context, req models.ReorderRequest) (*models.BackendResponse, error)
}
