package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/albumdash/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the read-only status API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(r.state, server.Options{
		Threshold: r.threshold(),
		Logger:    r.logger,
		Now:       r.now,
	})
	return srv.ListenAndServe(ctx, addr)
}
