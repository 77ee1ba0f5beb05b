// package server exposes the curated list over a small JSON HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/dispatcher"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
)

const shutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, recovery, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the curation service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// StatusReporter is implemented by [dispatcher.Dispatcher].
type StatusReporter interface {
	Status() dispatcher.Status
}

// Options configures a [Server]. Status is optional.
type Options struct {
	Engine *tasks.CurationEngine
	Status StatusReporter
	Logger *log.Logger
}

// Server serves the curation API.
type Server struct {
	engine *tasks.CurationEngine
	status StatusReporter
	router *BasicRouter
	logger *log.Logger
}

// New builds a server with every route registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	s := &Server{
		engine: opts.Engine,
		status: opts.Status,
		router: NewBasicRouter(),
		logger: shared.WithLogger(opts.Logger, "component", "server"),
	}

	s.router.Use(Recover(s.logger), Logging(s.logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Handle(http.MethodGet, "/movies", http.HandlerFunc(s.handleListMovies))
	s.router.Handle(http.MethodPost, "/movies", http.HandlerFunc(s.handleAddMovie))
	s.router.Handle(http.MethodPut, "/movies/filter", http.HandlerFunc(s.handleSetFilter))
	s.router.Handle(http.MethodPost, "/movies/reorder", http.HandlerFunc(s.handleReorder))
	s.router.Handle(http.MethodPost, "/movies/save-all", http.HandlerFunc(s.handleSaveAll))
	s.router.Handle(http.MethodGet, "/movies/{id}", http.HandlerFunc(s.handleGetMovie))
	s.router.Handle(http.MethodPut, "/movies/{id}", http.HandlerFunc(s.handleEditMovie))
	s.router.Handle(http.MethodDelete, "/movies/{id}", http.HandlerFunc(s.handleDeleteMovie))
	s.router.Handle(http.MethodGet, "/status", http.HandlerFunc(s.handleStatus))
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errs <- srv.Serve(ln)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%w: shutdown: %v", shared.ErrTimeout, err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs one line per request with its status and duration.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		})
	}
}

// Recover turns a handler panic into a 500.
func Recover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("handler panic", "path", r.URL.Path, "panic", v)
					writeError(w, http.StatusInternalServerError, fmt.Errorf("internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
