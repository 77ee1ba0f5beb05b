package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) language(cmd *cli.Command) string {
	if l := cmd.String("language"); l != "" {
		return l
	}
	return r.config.Catalog.Language
}

// CatalogSearch prints up to five suggestions for a query.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	suggestions, err := r.catalog.Suggestions(ctx, query, r.language(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, true)
	}

	if len(suggestions) == 0 {
		r.writePlain("%s\n", r.palette.Warn("No matches for "+query))
		return nil
	}
	for _, s := range suggestions {
		line := s.Title
		if s.Year != "" {
			line += " (" + s.Year + ")"
		}
		r.writePlain("%s %s\n", line, r.palette.Help("["+s.ID+"]"))
	}
	return nil
}

// CatalogDetails prints a single movie.
func (r *Runner) CatalogDetails(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	movie, err := r.catalog.MovieDetails(ctx, id, r.language(cmd))
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}
	r.writePlain("%s", r.palette.MovieDetail(*movie))
	return nil
}

func (r *Runner) CatalogGenres(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	genres, err := r.catalog.Genres(ctx, r.language(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}
	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(genres)))
	for _, g := range genres {
		r.writePlain("%6d  %s\n", g.ID, g.Name)
	}
	return nil
}

func (r *Runner) CatalogLanguages(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	languages, err := r.catalog.Languages(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(languages, true)
	}
	r.writePlainHeader(fmt.Sprintf("Languages (%d)", len(languages)))
	for _, l := range languages {
		r.writePlain("%-4s %s\n", l.ISO6391, l.EnglishName)
	}
	return nil
}
