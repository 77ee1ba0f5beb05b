package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultMarkdownDir = "movies"

// filtered loads the engine for the command's language and applies its --genre flag.
func (r *Runner) filtered(cmd *cli.Command) (*tasks.CurationEngine, error) {
	engine, err := r.curation(r.language(cmd))
	if err != nil {
		return nil, err
	}
	engine.List().SetGenres(cmd.StringSlice("genre")...)
	return engine, nil
}

func (r *Runner) writeMovies(movies []models.Movie, list *tasks.MovieList) {
	header := fmt.Sprintf("Movies (%d)", len(movies))
	if list.FilterActive() {
		header = fmt.Sprintf("Movies (%d of %d) · %s", len(movies), list.Len(), strings.Join(list.Genres(), ", "))
	}
	r.writePlainHeader(header)
	if len(movies) == 0 {
		r.writePlain("%s\n", r.palette.Help("The list is empty. Add movies with 'marquee enrich' or 'marquee list add'."))
		return
	}
	for i, m := range movies {
		r.writePlain("%s\n", r.palette.MovieLine(i+1, m))
	}
}

// ListShow prints the current view.
func (r *Runner) ListShow(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.filtered(cmd)
	if err != nil {
		return err
	}

	view := engine.List().View()
	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}
	r.writeMovies(view, engine.List())
	return nil
}

// ListMove moves one movie onto another's position, within the genre filter when one is given.
func (r *Runner) ListMove(ctx context.Context, cmd *cli.Command) error {
	moved, target := cmd.StringArg("moved"), cmd.StringArg("target")
	if moved == "" || target == "" {
		return fmt.Errorf("%w: moved and target ids", shared.ErrMissingArgument)
	}

	engine, err := r.filtered(cmd)
	if err != nil {
		return err
	}

	view, err := engine.Reorder(ctx, moved, target)
	if err != nil && !errors.Is(err, shared.ErrNotSynced) {
		return err
	}
	if err != nil {
		r.logger.Warn("reorder not synced", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}
	r.writeMovies(view, engine.List())
	return nil
}

func (r *Runner) ListRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	engine, err := r.curation(r.language(cmd))
	if err != nil {
		return err
	}

	removed, err := engine.Delete(ctx, id)
	if err != nil && !errors.Is(err, shared.ErrNotSynced) {
		return err
	}
	if err != nil {
		r.logger.Warn("delete not synced", "error", err)
	}

	r.writePlain("%s Removed %s\n", r.palette.OK("✓"), removed.Title)
	return nil
}

func (r *Runner) ListAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	engine, err := r.curation(r.language(cmd))
	if err != nil {
		return err
	}

	movie, err := engine.AddMovie(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateMovie) {
			r.writePlain("%s\n", r.palette.Warn("Already in the list: "+id))
			return nil
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}
	r.writePlain("%s Added %s\n", r.palette.OK("✓"), r.palette.MovieLine(engine.List().Len(), *movie))
	return nil
}

// ListSave posts the current view to the backend.
func (r *Runner) ListSave(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.filtered(cmd)
	if err != nil {
		return err
	}

	resp, err := engine.SaveAll(ctx, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, true)
	}
	if !resp.Success {
		r.writePlain("%s %s\n", r.palette.Err("✗"), resp.Message)
		return fmt.Errorf("%w: backend rejected batch (status %d)", shared.ErrAPIRequest, resp.Status)
	}
	r.writePlain("%s %s (%d movies)\n", r.palette.OK("✓"), resp.Message, len(engine.List().View()))
	return nil
}

// ListExport writes the current view in the requested format.
//
// Markdown exports go to a directory (README.md plus optional posters); other formats
// go to a single file. An output of "-" writes to stdout.
func (r *Runner) ListExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.filtered(cmd)
	if err != nil {
		return err
	}

	list := engine.List()
	export := &formatter.Export{
		Title:    cmd.String("title"),
		Language: engine.Language(),
		Movies:   list.View(),
	}
	if list.FilterActive() {
		export.Genres = list.Genres()
	}

	output := cmd.String("output")
	if output == "-" {
		return formatter.WriteExport(r.output, export, format)
	}

	if format != formatter.Markdown {
		path, err := formatter.WriteFileExport(export, format, output)
		if err != nil {
			return err
		}
		r.writePlain("%s Exported %d movies to %s\n", r.palette.OK("✓"), len(export.Movies), path)
		return nil
	}

	if output == "" {
		output = defaultMarkdownDir
	}
	result, err := formatter.WriteMarkdownExport(export, output, cmd.Bool("posters"), func(id string, err error) {
		r.logger.Warn("poster not downloaded", "id", id, "error", err)
	})
	if err != nil {
		return err
	}

	r.writePlain("%s Exported %d movies to %s\n", r.palette.OK("✓"), len(export.Movies), result.Directory)
	if cmd.Bool("posters") {
		r.writePlain("  %d posters downloaded\n", result.Posters)
	}
	return nil
}

// ListTrailer opens a listed movie's trailer.
func (r *Runner) ListTrailer(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	engine, err := r.curation(r.language(cmd))
	if err != nil {
		return err
	}

	movie, ok := engine.List().Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}
	if movie.TrailerURL == "" {
		r.writePlain("%s\n", r.palette.Warn("No trailer available for "+movie.Title))
		return nil
	}

	r.writePlain("Opening %s\n", movie.TrailerURL)
	return shared.OpenBrowser(movie.TrailerURL)
}
