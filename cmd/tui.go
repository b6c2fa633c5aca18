package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/desertthunder/albumdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("%w: the dashboard needs an interactive terminal, try 'albumdash show'", shared.ErrNotATerminal)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(shared.WithLogger(fileLogger, "session", shared.GenerateID()))

	if err := r.open(ctx); err != nil {
		return err
	}

	r.logger.Info("starting dashboard", "songs", len(r.state.SongIDs()))
	return ui.Run(ctx, r.state, ui.Options{
		Threshold: r.threshold(),
		Logger:    r.logger,
		Location:  r.loc,
		Now:       r.now,
	})
}
