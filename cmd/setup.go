package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bsx/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
//
// A config.toml is created from the embedded template when none exists.
// With --rollback the most recent migration is rolled back instead.
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
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		return r.rollbackDatabase(ctx, db)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	versions, err := shared.AppliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration state: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("database ready (%d migrations applied)", len(versions))))
}

func (r *Runner) rollbackDatabase(ctx context.Context, db *sql.DB) error {
	r.logger.Info("rolling back latest migration")
	if err := shared.RollbackMigration(ctx, db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	versions, err := shared.AppliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration state: %w", err)
	}
	return r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("rolled back (%d migrations applied)", len(versions))))
}
