package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/marquee/internal/shared"
)

const (
	MaxRating = 10.0

	UnknownDirector = "Unknown"
	NoOverview      = "No overview available"
)

// Movie is an enriched catalog record as it is listed, reordered and saved.
type Movie struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Overview       string   `json:"overview"`
	Cast           []string `json:"cast"`
	Genres         []string `json:"genres"`
	PosterURL      string   `json:"posterUrl,omitempty"`
	ReleaseDate    string   `json:"releaseDate,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	TrailerURL     string   `json:"trailerUrl,omitempty"`
	Director       string   `json:"director,omitempty"`
	RuntimeMinutes int      `json:"runtimeMinutes,omitempty"`
}

// Key returns the movie's identity; used as the reorder key.
func (m Movie) Key() string {
	return m.ID
}

// Year returns the first four characters of the release date, if present.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// HasAnyGenre reports whether the movie carries at least one of names.
// An empty names matches every movie.
func (m Movie) HasAnyGenre(names ...string) bool {
	if len(names) == 0 {
		return true
	}
	for _, g := range m.Genres {
		if slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(n, g) }) {
			return true
		}
	}
	return false
}

func (m Movie) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: id is required", shared.ErrInvalidMovie)
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title is required for %s", shared.ErrInvalidMovie, m.ID)
	}
	if m.Rating < 0 || m.Rating > MaxRating {
		return fmt.Errorf("%w: rating %.1f out of range for %s", shared.ErrInvalidMovie, m.Rating, m.ID)
	}
	if m.RuntimeMinutes < 0 {
		return fmt.Errorf("%w: negative runtime for %s", shared.ErrInvalidMovie, m.ID)
	}
	return nil
}

// Exists reports whether a movie with id is present in movies.
func Exists(movies []Movie, id string) bool {
	return slices.ContainsFunc(movies, func(m Movie) bool { return m.ID == id })
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Language is a catalog language keyed by its ISO 639-1 code.
type Language struct {
	ISO6391     string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// Suggestion is a lightweight search hit offered while typing a title.
type Suggestion struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Year      string `json:"year,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"`
}
