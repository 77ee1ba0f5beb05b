package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/marquee/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.curation(r.language(cmd))
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	opts := server.Options{Engine: engine, Logger: r.logger}
	if r.dispatcher != nil {
		opts.Status = r.dispatcher
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("%s http://%s\n", r.palette.Title("Serving "+strconv.Itoa(engine.List().Len())+" movies on"), cfg.Addr())
	return server.New(opts).Serve(ctx, cfg.Addr())
}
