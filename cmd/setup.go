package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
		config = shared.DefaultConfig()
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	r.logger.Infof("setup complete for database: %v (schema version %d)", config.Database.Path, version)
	return nil
}

// SetupConfig writes a config file from the embedded template, optionally storing an API key.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	apiKey := cmd.String("api-key")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if apiKey != "" {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config.Catalog.APIKey = apiKey
		if err := shared.SaveConfig(configPath, config); err != nil {
			return err
		}
	}

	r.writePlain("%s Config written to %s\n", r.palette.OK("✓"), configPath)
	r.writePlainln("Next steps:")
	if apiKey == "" {
		r.writePlain("1. Set catalog.api_key (or catalog.access_token) in %s\n", configPath)
	} else {
		r.writePlain("1. Review the settings in %s\n", configPath)
	}
	r.writePlain("2. Run 'marquee setup database' to create the local store\n")
	return nil
}
