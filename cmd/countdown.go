package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/albumdash/internal/countdown"
	"github.com/urfave/cli/v3"
)

// Countdown prints the time left until the deadline, once or continuously with --watch.
func (r *Runner) Countdown(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	deadline := r.state.Deadline()
	line := func(now time.Time) string {
		left := countdown.Remaining(now, deadline)
		if left.Zero() {
			return "Deadline reached (" + deadline.In(r.loc).Format(displayLayout) + ")"
		}
		return left.String() + " until " + deadline.In(r.loc).Format(displayLayout) + " (" + countdown.Relative(now, deadline) + ")"
	}

	if !cmd.Bool("watch") {
		return r.writePlain("%s\n", line(r.now()))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := countdown.Watch(ctx, cmd.Duration("interval"), func(time.Time) {
		r.writePlain("\r\033[K%s", line(r.now()))
	})
	r.writePlain("\n")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
