package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	config.ApplyEnv(".env")
	shared.SetLogLevel(logger, shared.ParseLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "albumdash",
		Usage:    "Track album production progress song by song",
		Version:  "0.1.0",
		Commands: runner.register(),
		After:    runner.Close,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrSongNotFound),
			errors.Is(err, shared.ErrStageNotFound),
			errors.Is(err, shared.ErrInvalidSnapshot),
			errors.Is(err, shared.ErrInvalidDeadline),
			errors.Is(err, shared.ErrMissingArgument),
			errors.Is(err, shared.ErrInvalidFlag),
			errors.Is(err, shared.ErrNotATerminal):
			logger.Error(err.Error())
			os.Exit(1)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
