package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
	"github.com/urfave/cli/v3"
)

// readTitles returns the non-blank lines of path.
func readTitles(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open titles file: %w", err)
	}
	defer f.Close()

	titles := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			titles = append(titles, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read titles file: %w", err)
	}
	return titles, nil
}

// Enrich resolves titles from arguments and --file and appends the matches to the list.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	titles := cmd.Args().Slice()
	if path := cmd.String("file"); path != "" {
		fromFile, err := readTitles(path)
		if err != nil {
			return err
		}
		titles = append(titles, fromFile...)
	}
	if len(titles) == 0 {
		return fmt.Errorf("%w: pass titles as arguments or with --file", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	engine, err := r.curation(r.language(cmd))
	if err != nil {
		return err
	}

	var (
		updates chan tasks.ProgressUpdate
		done    = make(chan struct{})
	)
	if cmd.Bool("json") {
		close(done)
	} else {
		updates = make(chan tasks.ProgressUpdate, 2*len(titles)+4)
		go r.progress(updates, done)
	}

	result, err := engine.Enrich(ctx, titles, updates)
	if updates != nil {
		close(updates)
	}
	<-done
	if err != nil && result == nil {
		return err
	}

	if cmd.Bool("json") {
		if jerr := r.writeJSON(result, true); jerr != nil {
			return jerr
		}
		return err
	}

	r.writePlainln("%s %d added, %d duplicates, %d not found",
		r.palette.OK("✓"), len(result.Movies), result.Duplicates, len(result.NotFound))
	for _, title := range result.NotFound {
		r.writePlain("  %s %s\n", r.palette.Warn("✗"), title)
	}
	return err
}
