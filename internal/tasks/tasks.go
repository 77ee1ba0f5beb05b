// package tasks implements curation operations over a movie list.
//
// The core abstraction is CurationEngine, which enriches titles through the catalog, applies list edits
// and mirrors them to the backend and the local store.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/server layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/reorder"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
)

// MovieCacher stores catalog lookups so repeated runs can skip the network.
type MovieCacher interface {
	CacheMovie(language string, m models.Movie) error
}

// ListStore persists the canonical order of a list per language.
type ListStore interface {
	SaveOrder(language string, movies []models.Movie) error
	LoadOrder(language string) ([]models.Movie, error)
}

// EnrichResult contains the outcome of resolving a batch of titles.
type EnrichResult struct {
	Movies     []models.Movie // Resolved movies in input order, unique by id
	NotFound   []string       // Titles with no catalog match
	Duplicates int            // Titles that resolved to a movie already listed
	Total      int            // Unique titles searched
}

// EngineOpts contains the dependencies of a [CurationEngine]. Backend, Cache and Store are optional.
type EngineOpts struct {
	Catalog  services.Catalog
	Backend  services.Backend
	List     *MovieList
	Cache    MovieCacher
	Store    ListStore
	Language string
	Logger   *log.Logger
	Now      func() time.Time
}

// CurationEngine orchestrates list edits.
type CurationEngine struct {
	catalog  services.Catalog
	backend  services.Backend
	list     *MovieList
	cache    MovieCacher
	store    ListStore
	language string
	logger   *log.Logger
	now      func() time.Time
}

// NewCurationEngine creates a new CurationEngine with the provided dependencies.
func NewCurationEngine(opts EngineOpts) *CurationEngine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.List == nil {
		opts.List = NewMovieList(nil, opts.Logger)
	}
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &CurationEngine{
		catalog:  opts.Catalog,
		backend:  opts.Backend,
		list:     opts.List,
		cache:    opts.Cache,
		store:    opts.Store,
		language: opts.Language,
		logger:   shared.WithLogger(opts.Logger, "component", "curation"),
		now:      opts.Now,
	}
}

// List returns the list the engine edits.
func (e *CurationEngine) List() *MovieList {
	return e.list
}

func (e *CurationEngine) Language() string {
	return e.language
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CurationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Load replaces the list with the stored order for the engine's language.
func (e *CurationEngine) Load() error {
	if e.store == nil {
		return nil
	}
	movies, err := e.store.LoadOrder(e.language)
	if err != nil {
		return fmt.Errorf("failed to load list: %w", err)
	}
	e.list.Set(movies)
	return nil
}

// Enrich resolves titles through the catalog and appends the matches to the list.
//
// Titles are compared case-insensitively and searched once each. A rejected credential aborts the
// run and returns the partial result alongside the error; every other miss is recorded in NotFound.
func (e *CurationEngine) Enrich(ctx context.Context, titles []string, progress chan<- ProgressUpdate) (*EnrichResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	unique := uniqueTitles(titles)
	result := &EnrichResult{Total: len(unique), Movies: []models.Movie{}, NotFound: []string{}}
	e.sendProgress(progress, parseTitlesUpdate(len(unique), len(titles)))

	found := make([]models.Movie, 0, len(unique))
	for i, title := range unique {
		e.sendProgress(progress, searchTitleUpdate(i+1, len(unique), title))

		movie, err := e.catalog.SearchMovie(ctx, title, e.language)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				result.Movies = found
				return result, err
			}
			e.logger.Warn("lookup failed", "title", title, "error", err)
		}
		if movie == nil {
			result.NotFound = append(result.NotFound, title)
			e.sendProgress(progress, missingMovieUpdate(i+1, len(unique), title))
			continue
		}

		e.cacheMovie(*movie)
		found = append(found, *movie)
		e.sendProgress(progress, foundMovieUpdate(i+1, len(unique), movie))
	}

	found, dupes := reorder.Dedupe(found, movieKey)
	result.Duplicates = dupes

	for _, m := range found {
		if err := e.list.Add(m); err != nil {
			if errors.Is(err, shared.ErrDuplicateMovie) {
				result.Duplicates++
				continue
			}
			e.logger.Warn("skipping movie", "id", m.ID, "error", err)
			continue
		}
		result.Movies = append(result.Movies, m)
	}
	e.sendProgress(progress, mergeUpdate(len(result.Movies), result.Duplicates))

	if err := e.persist(); err != nil {
		return result, err
	}
	e.sendProgress(progress, persistUpdate(e.list.Len()))

	return result, nil
}

// AddMovie looks up a movie by catalog id and appends it.
func (e *CurationEngine) AddMovie(ctx context.Context, id string) (*models.Movie, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if _, ok := e.list.Get(id); ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateMovie, id)
	}

	movie, err := e.catalog.MovieDetails(ctx, id, e.language)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}

	if err := e.list.Add(*movie); err != nil {
		return nil, err
	}
	e.cacheMovie(*movie)

	if err := e.persist(); err != nil {
		return movie, err
	}
	return movie, nil
}

// Reorder moves one movie next to another and sends the resulting view order to the backend.
//
// The list and store are updated even when the backend call fails; that failure wraps
// [shared.ErrNotSynced]. A store failure is returned unwrapped.
func (e *CurationEngine) Reorder(ctx context.Context, moved, target string) ([]models.Movie, error) {
	view, err := e.list.Move(moved, target)
	if err != nil {
		return nil, err
	}
	if err := e.persist(); err != nil {
		return view, err
	}

	if e.backend != nil {
		if _, err := e.backend.UpdateOrder(ctx, models.NewReorderRequest(view, e.now())); err != nil {
			return view, fmt.Errorf("%w: reorder: %w", shared.ErrNotSynced, err)
		}
	}
	return view, nil
}

// Delete removes a movie locally and from the backend.
func (e *CurationEngine) Delete(ctx context.Context, id string) (*models.Movie, error) {
	removed, err := e.list.Remove(id)
	if err != nil {
		return nil, err
	}
	if err := e.persist(); err != nil {
		return &removed, err
	}

	if e.backend != nil {
		if _, err := e.backend.DeleteMovie(ctx, id); err != nil {
			return &removed, fmt.Errorf("%w: delete: %w", shared.ErrNotSynced, err)
		}
	}
	return &removed, nil
}

// Edit replaces a movie's fields and sends the edit to the backend.
func (e *CurationEngine) Edit(ctx context.Context, m models.Movie) (*models.BackendResponse, error) {
	if err := e.list.Replace(m); err != nil {
		return nil, err
	}
	e.cacheMovie(m)
	if err := e.persist(); err != nil {
		return nil, err
	}

	if e.backend == nil {
		return nil, nil
	}
	return e.backend.SaveMovie(ctx, m)
}

// SaveAll posts the current view as one batch, numbered from 1 in display order.
func (e *CurationEngine) SaveAll(ctx context.Context, progress chan<- ProgressUpdate) (*models.BackendResponse, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: backend not initialized", shared.ErrServiceUnavailable)
	}

	batch := e.list.Batch(e.language, e.now())
	if len(batch.Movies) == 0 {
		return nil, fmt.Errorf("%w: no movies to save", shared.ErrInvalidInput)
	}

	resp, err := e.backend.SaveAll(ctx, batch)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, syncUpdate(resp))
	return resp, nil
}

func (e *CurationEngine) cacheMovie(m models.Movie) {
	if e.cache == nil {
		return
	}
	if err := e.cache.CacheMovie(e.language, m); err != nil {
		e.logger.Warn("failed to cache movie", "id", m.ID, "error", err)
	}
}

func (e *CurationEngine) persist() error {
	if e.store == nil {
		return nil
	}
	if err := e.store.SaveOrder(e.language, e.list.Movies()); err != nil {
		return fmt.Errorf("failed to save list: %w", err)
	}
	return nil
}

// uniqueTitles trims titles and drops blanks and case-insensitive repeats, keeping first spellings.
func uniqueTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		key := shared.NormalizeTitle(t)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
