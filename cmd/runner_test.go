package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/marquee/internal/dispatcher"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	tu "github.com/desertthunder/marquee/internal/testing"
	"github.com/desertthunder/marquee/internal/ui"
	"github.com/urfave/cli/v3"
)

var (
	heat  = models.Movie{ID: "949", Title: "Heat", ReleaseDate: "1995-12-15", Genres: []string{"Crime", "Drama"}, TrailerURL: "https://www.youtube.com/watch?v=heat"}
	ronin = models.Movie{ID: "8195", Title: "Ronin", ReleaseDate: "1998-09-25", Genres: []string{"Action", "Crime"}}
	alien = models.Movie{ID: "348", Title: "Alien", ReleaseDate: "1979-05-25", Genres: []string{"Horror", "Science Fiction"}}
)

type testRunner struct {
	*Runner
	out *bytes.Buffer
	db  *sql.DB
}

func newTestRunner(t *testing.T, catalog *tu.MockCatalog, backend *tu.MockBackend) *testRunner {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	out := &bytes.Buffer{}
	opts := RunnerOpts{
		DB:      db,
		Output:  out,
		Logger:  shared.NewLogger(io.Discard),
		Palette: ui.Plain(),
	}
	if catalog != nil {
		opts.Catalog = catalog
	}
	if backend != nil {
		opts.Backend = backend
	}

	return &testRunner{Runner: NewRunner(opts), out: out, db: db}
}

func (tr *testRunner) seed(t *testing.T, movies ...models.Movie) {
	t.Helper()
	if err := repositories.NewCurationStore(tr.db).SaveOrder("en-US", movies); err != nil {
		t.Fatalf("failed to seed list: %v", err)
	}
}

func (tr *testRunner) run(args ...string) error {
	app := &cli.Command{
		Name:      "marquee",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands:  tr.register(),
	}
	return app.Run(context.Background(), append([]string{"marquee"}, args...))
}

func (tr *testRunner) stored(t *testing.T) []string {
	t.Helper()
	movies, err := repositories.NewCurationStore(tr.db).LoadOrder("en-US")
	if err != nil {
		t.Fatalf("failed to load list: %v", err)
	}
	return movieIDs(movies)
}

func movieIDs(movies []models.Movie) []string {
	ids := make([]string, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := tu.NewMockCatalog()
			backend := &tu.MockBackend{}
			api := &services.APIService{}
			d := dispatcher.New(dispatcher.Options{Logger: shared.NewLogger(io.Discard)})
			defer d.Close()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				Catalog:    catalog,
				Backend:    backend,
				API:        api,
				Dispatcher: d,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.backend != backend {
				t.Error("expected backend to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.dispatcher != d {
				t.Error("expected dispatcher to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil palette uses styles", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.palette != ui.Styles {
				t.Error("expected palette to default to ui.Styles")
			}
		})

		t.Run("backend defaults to api", func(t *testing.T) {
			api := services.NewAPIService(shared.BackendConfig{}, nil, nil)
			runner := NewRunner(RunnerOpts{API: api})

			if runner.backend != api {
				t.Error("expected backend to default to the API service")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("done"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\ndone\n" {
				t.Errorf("expected newline-wrapped text, got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "catalog", "list", "enrich", "backend", "serve"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("curation", func(t *testing.T) {
		t.Run("loads the stored list once", func(t *testing.T) {
			tr := newTestRunner(t, nil, nil)
			tr.seed(t, heat, ronin)

			engine, err := tr.curation("")
			if err != nil {
				t.Fatalf("curation failed: %v", err)
			}
			if got := movieIDs(engine.List().Movies()); strings.Join(got, ",") != "949,8195" {
				t.Errorf("expected stored order, got %v", got)
			}

			again, _ := tr.curation("en-US")
			if again != engine {
				t.Error("expected the engine to be reused for the same language")
			}
		})

		t.Run("new language gets its own list", func(t *testing.T) {
			tr := newTestRunner(t, nil, nil)
			tr.seed(t, heat)

			engine, err := tr.curation("fr-FR")
			if err != nil {
				t.Fatalf("curation failed: %v", err)
			}
			if engine.List().Len() != 0 {
				t.Errorf("expected empty fr-FR list, got %d", engine.List().Len())
			}
		})
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config writes template", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := tr.run("setup", "config", "--config", path, "--api-key", "k3y"); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load written config: %v", err)
		}
		if config.Catalog.APIKey != "k3y" {
			t.Errorf("expected api key to be stored, got %q", config.Catalog.APIKey)
		}
		if !strings.Contains(tr.out.String(), "Config written to") {
			t.Errorf("unexpected output %q", tr.out.String())
		}
	})

	t.Run("config refuses to overwrite", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[catalog]\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := tr.run("setup", "config", "--config", path); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("database runs migrations", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "marquee.db")
		if err := shared.SaveConfig(configPath, config); err != nil {
			t.Fatal(err)
		}

		tr := newTestRunner(t, nil, nil)
		if err := tr.run("setup", "database", "--config", configPath); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
	})
}

func TestCatalogCommands(t *testing.T) {
	catalog := tu.NewMockCatalog(heat, ronin)
	catalog.GenreList = []models.Genre{{ID: 80, Name: "Crime"}}

	t.Run("search", func(t *testing.T) {
		tr := newTestRunner(t, catalog, nil)

		if err := tr.run("catalog", "search", "heat"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "Heat (1995) [949]") {
			t.Errorf("expected suggestion line, got %q", tr.out.String())
		}
	})

	t.Run("search without query", func(t *testing.T) {
		tr := newTestRunner(t, catalog, nil)

		if err := tr.run("catalog", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("details as JSON", func(t *testing.T) {
		tr := newTestRunner(t, catalog, nil)

		if err := tr.run("catalog", "details", "--json", "8195"); err != nil {
			t.Fatalf("details failed: %v", err)
		}

		var got models.Movie
		if err := json.Unmarshal(tr.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Title != "Ronin" {
			t.Errorf("expected Ronin, got %q", got.Title)
		}
	})

	t.Run("details not found", func(t *testing.T) {
		tr := newTestRunner(t, catalog, nil)

		if err := tr.run("catalog", "details", "1"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("genres", func(t *testing.T) {
		tr := newTestRunner(t, catalog, nil)

		if err := tr.run("catalog", "genres"); err != nil {
			t.Fatalf("genres failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "80  Crime") {
			t.Errorf("expected genre row, got %q", tr.out.String())
		}
	})

	t.Run("languages", func(t *testing.T) {
		tr := newTestRunner(t, catalog, nil)

		if err := tr.run("catalog", "languages"); err != nil {
			t.Fatalf("languages failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "en   English") {
			t.Errorf("expected language row, got %q", tr.out.String())
		}
	})

	t.Run("without catalog", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)

		if err := tr.run("catalog", "genres"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestListCommands(t *testing.T) {
	t.Run("show", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, heat, ronin, alien)

		if err := tr.run("list", "show"); err != nil {
			t.Fatalf("show failed: %v", err)
		}

		out := tr.out.String()
		if !strings.Contains(out, "Movies (3)") {
			t.Errorf("expected header, got %q", out)
		}
		if strings.Index(out, "Heat") > strings.Index(out, "Alien") {
			t.Error("expected stored order")
		}
	})

	t.Run("show with genre filter", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, heat, ronin, alien)

		if err := tr.run("list", "show", "--json", "--genre", "crime"); err != nil {
			t.Fatalf("show failed: %v", err)
		}

		var got []models.Movie
		if err := json.Unmarshal(tr.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if ids := strings.Join(movieIDs(got), ","); ids != "949,8195" {
			t.Errorf("expected crime movies, got %s", ids)
		}
	})

	t.Run("move persists and syncs", func(t *testing.T) {
		backend := &tu.MockBackend{}
		tr := newTestRunner(t, nil, backend)
		tr.seed(t, heat, ronin, alien)

		if err := tr.run("list", "move", "348", "949"); err != nil {
			t.Fatalf("move failed: %v", err)
		}

		if got := strings.Join(tr.stored(t), ","); got != "348,949,8195" {
			t.Errorf("expected Alien first, got %s", got)
		}
		if len(backend.Reorders) != 1 {
			t.Fatalf("expected one reorder request, got %d", len(backend.Reorders))
		}
		if got := strings.Join(backend.Reorders[0].MovieIDs, ","); got != "348,949,8195" {
			t.Errorf("unexpected reorder payload %s", got)
		}
	})

	t.Run("move keeps local order when backend fails", func(t *testing.T) {
		backend := &tu.MockBackend{Err: shared.ErrAPIRequest}
		tr := newTestRunner(t, nil, backend)
		tr.seed(t, heat, ronin)

		if err := tr.run("list", "move", "8195", "949"); err != nil {
			t.Fatalf("expected backend failure to be tolerated, got %v", err)
		}
		if got := strings.Join(tr.stored(t), ","); got != "8195,949" {
			t.Errorf("expected local order to change, got %s", got)
		}
	})

	t.Run("move unknown movie", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, heat)

		if err := tr.run("list", "move", "1", "949"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("add", func(t *testing.T) {
		tr := newTestRunner(t, tu.NewMockCatalog(heat, ronin), nil)
		tr.seed(t, heat)

		if err := tr.run("list", "add", "8195"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if got := strings.Join(tr.stored(t), ","); got != "949,8195" {
			t.Errorf("expected Ronin appended, got %s", got)
		}
	})

	t.Run("add duplicate warns", func(t *testing.T) {
		tr := newTestRunner(t, tu.NewMockCatalog(heat), nil)
		tr.seed(t, heat)

		if err := tr.run("list", "add", "949"); err != nil {
			t.Fatalf("expected duplicate to be reported, not returned: %v", err)
		}
		if !strings.Contains(tr.out.String(), "Already in the list") {
			t.Errorf("unexpected output %q", tr.out.String())
		}
	})

	t.Run("remove", func(t *testing.T) {
		backend := &tu.MockBackend{}
		tr := newTestRunner(t, nil, backend)
		tr.seed(t, heat, ronin)

		if err := tr.run("list", "remove", "949"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if got := strings.Join(tr.stored(t), ","); got != "8195" {
			t.Errorf("expected only Ronin left, got %s", got)
		}
		if len(backend.Deleted) != 1 || backend.Deleted[0] != "949" {
			t.Errorf("expected backend delete, got %v", backend.Deleted)
		}
	})

	t.Run("save sends the filtered view", func(t *testing.T) {
		backend := &tu.MockBackend{}
		tr := newTestRunner(t, nil, backend)
		tr.seed(t, heat, ronin, alien)

		if err := tr.run("list", "save", "--genre", "Horror"); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if len(backend.Batches) != 1 {
			t.Fatalf("expected one batch, got %d", len(backend.Batches))
		}

		batch := backend.Batches[0]
		if batch.TotalMovies != 1 || batch.Movies[0].ID != "348" || batch.Movies[0].Order != 1 {
			t.Errorf("unexpected batch %+v", batch)
		}
	})

	t.Run("save without backend", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, heat)

		if err := tr.run("list", "save"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("export to stdout", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, heat, ronin)

		if err := tr.run("list", "export", "--format", "txt", "--output", "-", "--title", "Heists"); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		out := tr.out.String()
		if !strings.Contains(out, "List: Heists") || !strings.Contains(out, "2. Ronin (1998)") {
			t.Errorf("unexpected export %q", out)
		}
	})

	t.Run("export csv file", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, heat)
		path := filepath.Join(t.TempDir(), "list.csv")

		if err := tr.run("list", "export", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, path), "1,949,Heat,1995") {
			t.Error("expected movie row in CSV")
		}
	})

	t.Run("export markdown directory", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, heat)
		dir := filepath.Join(t.TempDir(), "out")

		if err := tr.run("list", "export", "--output", dir); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "README.md"))
	})

	t.Run("export unknown format", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)

		if err := tr.run("list", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("trailer without url", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)
		tr.seed(t, ronin)

		if err := tr.run("list", "trailer", "8195"); err != nil {
			t.Fatalf("trailer failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), "No trailer available for Ronin") {
			t.Errorf("unexpected output %q", tr.out.String())
		}
	})

	t.Run("trailer unknown movie", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)

		if err := tr.run("list", "trailer", "1"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})
}

func TestEnrichCommand(t *testing.T) {
	t.Run("arguments and file", func(t *testing.T) {
		tr := newTestRunner(t, tu.NewMockCatalog(heat, ronin), nil)
		tr.seed(t, heat)

		file := filepath.Join(t.TempDir(), "titles.txt")
		if err := os.WriteFile(file, []byte("Ronin\n\nNope\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := tr.run("enrich", "--file", file, "heat"); err != nil {
			t.Fatalf("enrich failed: %v", err)
		}

		out := tr.out.String()
		if !strings.Contains(out, "1 added, 1 duplicates, 1 not found") {
			t.Errorf("unexpected summary %q", out)
		}
		if !strings.Contains(out, "✗ Nope") {
			t.Errorf("expected missing title, got %q", out)
		}
		if got := strings.Join(tr.stored(t), ","); got != "949,8195" {
			t.Errorf("expected Ronin appended, got %s", got)
		}
	})

	t.Run("JSON result", func(t *testing.T) {
		tr := newTestRunner(t, tu.NewMockCatalog(alien), nil)

		if err := tr.run("enrich", "--json", "Alien"); err != nil {
			t.Fatalf("enrich failed: %v", err)
		}

		var got struct {
			Movies []models.Movie
			Total  int
		}
		if err := json.Unmarshal(tr.out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Total != 1 || len(got.Movies) != 1 {
			t.Errorf("unexpected result %+v", got)
		}
	})

	t.Run("rejected credential aborts", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.Errors["heat"] = &dispatcher.AuthorizationError{Err: shared.ErrUnauthorized}
		tr := newTestRunner(t, catalog, nil)

		if err := tr.run("enrich", "Heat"); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("no titles", func(t *testing.T) {
		tr := newTestRunner(t, tu.NewMockCatalog(), nil)

		if err := tr.run("enrich"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		tr := newTestRunner(t, tu.NewMockCatalog(), nil)

		if err := tr.run("enrich", "--file", filepath.Join(t.TempDir(), "none.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestBackendCommands(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/movies":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"movies":[]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/echo":
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer server.Close()

	newRunner := func(t *testing.T) *testRunner {
		tr := newTestRunner(t, nil, nil)
		tr.api = services.NewAPIService(shared.BackendConfig{BaseURL: server.URL}, server.Client(), tr.logger)
		return tr
	}

	t.Run("get", func(t *testing.T) {
		tr := newRunner(t)

		if err := tr.run("backend", "get", "--pretty=false", "/movies"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if strings.TrimSpace(tr.out.String()) != `{"movies":[]}` {
			t.Errorf("unexpected output %q", tr.out.String())
		}
	})

	t.Run("post", func(t *testing.T) {
		tr := newRunner(t)

		if err := tr.run("backend", "post", "--data", `{"ok":true}`, "/echo"); err != nil {
			t.Fatalf("post failed: %v", err)
		}
		if !strings.Contains(tr.out.String(), `"ok": true`) {
			t.Errorf("unexpected output %q", tr.out.String())
		}
	})

	t.Run("error status", func(t *testing.T) {
		tr := newRunner(t)

		if err := tr.run("backend", "get", "/missing"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("without backend", func(t *testing.T) {
		tr := newTestRunner(t, nil, nil)

		if err := tr.run("backend", "get", "/movies"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
