package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/albumdash/internal/repositories"
	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/desertthunder/albumdash/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// Export writes the songs and title as a JSON snapshot and records it in the export history.
//
// An empty --output is treated as a cancelled destination and does nothing.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	if cmd.Bool("history") {
		return r.exportHistory(ctx, int(cmd.Int("limit")))
	}

	a := r.state.Album()
	blob, err := storage.ExportSnapshot(a.Songs, a.Title)
	if err != nil {
		return err
	}

	if cmd.Bool("stdout") {
		_, err := r.output.Write(append(blob, '\n'))
		return err
	}

	path := strings.TrimSpace(cmd.String("output"))
	if path == "" {
		r.logger.Info("no export destination, skipping")
		return nil
	}

	if err := storage.WriteSnapshotFile(path, blob); err != nil {
		return err
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := r.exports.Create(ctx, &repositories.ExportEntry{Path: path, Bytes: len(blob)}); err != nil {
		r.logger.Warn("failed to record export", "error", err)
	}

	r.logger.Info("snapshot exported", "path", path, "songs", len(a.Songs))
	return r.writePlain("✓ Exported %d songs to %s (%s)\n", len(a.Songs), path, humanize.Bytes(uint64(len(blob))))
}

func (r *Runner) exportHistory(ctx context.Context, limit int) error {
	entries, err := r.exports.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return r.writePlain("No exports yet.\n")
	}

	now := r.now()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
			e.Path,
			humanize.Bytes(uint64(e.Bytes)),
		}
	}

	return r.writePlain("%s\n", renderTable(r.output,
		[]string{"When", "Path", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))
}

// Import replaces the stored album with a snapshot file and reloads it.
//
// Files that are not a JSON object are rejected with [shared.ErrInvalidSnapshot]; nothing changes.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("file"))
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	blob, err := storage.ReadSnapshotFile(path)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.state.Import(ctx, blob); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	a := r.state.Album()
	r.logger.Info("snapshot imported", "path", path, "songs", len(a.Songs))
	return r.writePlain("✓ Imported %q with %d songs\n", a.Title, len(a.Songs))
}

// Reset deletes the stored album so the defaults load again.
func (r *Runner) Reset(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete the stored album", shared.ErrMissingArgument)
	}
	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.state.Reset(ctx); err != nil {
		return err
	}

	a := r.state.Album()
	return r.writePlain("✓ Reset to %q with %d songs\n", a.Title, len(a.Songs))
}
