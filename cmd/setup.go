package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/desertthunder/albumdash/internal/repositories"
	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file (if missing), initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
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
	config.ApplyEnv(".env")

	r.logger.Info("initializing database", "path", config.Storage.Path)

	db, err := shared.OpenDatabase(config.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to read migration state: %w", err)
	}

	keys, err := repositories.NewRecordRepository(db).Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored records: %w", err)
	}
	stored := "nothing saved yet"
	if slices.Contains(keys, config.Storage.Key) {
		stored = "album saved"
	}

	r.logger.Infof("setup complete for database: %v", config.Storage.Path)
	r.writePlain("✓ Config: %s\n", configPath)
	r.writePlain("✓ Database: %s (%d migrations applied)\n", config.Storage.Path, len(versions))
	r.writePlain("✓ Storage key: %s (%s, %d records)\n", config.Storage.Key, stored, len(keys))
	return nil
}
