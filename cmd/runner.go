package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/dispatcher"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
	"github.com/desertthunder/marquee/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	dispatcher *dispatcher.Dispatcher
	catalog    services.Catalog
	backend    services.Backend
	api        *services.APIService
	db         *sql.DB
	ownsDB     bool
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette
	engine     *tasks.CurationEngine
}

// RunnerOpts contains configuration options for creating a Runner.
//
// DB is opened from Config.Database on first use when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Dispatcher *dispatcher.Dispatcher
	Catalog    services.Catalog
	Backend    services.Backend
	API        *services.APIService
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
	Palette    *ui.Palette
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Palette == nil {
		opts.Palette = ui.Styles
	}
	if opts.Backend == nil && opts.API != nil {
		opts.Backend = opts.API
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		dispatcher: opts.Dispatcher,
		catalog:    opts.Catalog,
		backend:    opts.Backend,
		api:        opts.API,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    opts.Palette,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, catalogCommand, listCommand, enrichCommand, backendCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Close releases the database (when the runner opened it) and drains the dispatcher.
func (r *Runner) Close() {
	if r.ownsDB && r.db != nil {
		r.db.Close()
		r.db, r.ownsDB = nil, false
	}
	if r.dispatcher != nil {
		r.dispatcher.Close()
		r.dispatcher = nil
	}
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database (run 'marquee setup database' first?): %w", err)
	}
	r.db = db
	r.ownsDB = true
	return db, nil
}

// curation returns the engine, building it and loading the stored list on first use.
func (r *Runner) curation(language string) (*tasks.CurationEngine, error) {
	if language == "" {
		language = r.config.Catalog.Language
	}
	if r.engine != nil && r.engine.Language() == language {
		return r.engine, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}
	store := repositories.NewCurationStore(db)

	engine := tasks.NewCurationEngine(tasks.EngineOpts{
		Catalog:  r.catalog,
		Backend:  r.backend,
		Cache:    store,
		Store:    store,
		Language: language,
		Logger:   r.logger,
	})
	if err := engine.Load(); err != nil {
		return nil, err
	}

	r.engine = engine
	return engine, nil
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not configured (set catalog.api_key or catalog.access_token)", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.palette.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}

// progress drains updates into the output until the channel is closed.
func (r *Runner) progress(updates <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	for u := range updates {
		switch u.Phase {
		case tasks.SearchTitles:
			r.writePlain("  %s\n", u.Message)
		default:
			r.writePlain("%s\n", r.palette.Help(u.Message))
		}
	}
	close(done)
}
