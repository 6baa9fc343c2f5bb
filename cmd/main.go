package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bsx/internal/shared"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if level, err := shared.ParseLogLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "bsx",
		Usage:    "Run the extension background layer's lifecycle and collection operations",
		Version:  config.Extension.Version,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()

	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrThrottled) {
			logger.Warn("reload throttled")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
