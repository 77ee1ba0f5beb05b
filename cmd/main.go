package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/marquee/internal/dispatcher"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

const placeholderAPIKey = "your_tmdb_api_key"

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	if p := os.Getenv("MARQUEE_CONFIG"); p != "" {
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		config.Catalog.APIKey = key
	}

	d := dispatcher.New(dispatcher.Options{
		Quota:      config.Dispatcher.Quota,
		Window:     config.Dispatcher.Window(),
		RetryDelay: config.Dispatcher.RetryDelay(),
		Gap:        config.Dispatcher.Gap(),
		MinWait:    config.Dispatcher.MinWait(),
		MaxRetries: config.Dispatcher.MaxRetries,
		Logger:     logger,
	})

	var catalog services.Catalog
	if config.Catalog.AccessToken != "" || (config.Catalog.APIKey != "" && config.Catalog.APIKey != placeholderAPIKey) {
		catalog = services.NewCatalogService(config.Catalog, d, logger)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Dispatcher: d,
		Catalog:    catalog,
		API:        services.NewAPIService(config.Backend, &http.Client{Timeout: config.Catalog.Timeout()}, logger),
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "marquee",
		Usage:    "Curate, reorder and export movie lists backed by TMDB",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			runner.Close()
			os.Exit(0)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
