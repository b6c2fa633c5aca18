package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/albumdash/internal/album"
	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// AlbumRename sets the album title.
func (r *Runner) AlbumRename(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	r.state.RenameAlbum(title)
	r.logger.Info("album renamed", "title", title)
	return r.writePlain("✓ Album renamed to %q\n", title)
}

// AlbumDeadline sets the release deadline.
func (r *Runner) AlbumDeadline(ctx context.Context, cmd *cli.Command) error {
	when := cmd.StringArg("when")
	if strings.TrimSpace(when) == "" {
		return fmt.Errorf("%w: when", shared.ErrMissingArgument)
	}

	deadline, err := shared.ParseDeadline(when, r.loc)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	r.state.SetDeadline(deadline)
	r.logger.Info("deadline set", "deadline", deadline)
	return r.writePlain("✓ Deadline set to %s\n", deadline.In(r.loc).Format(displayLayout))
}

// SongAdd appends a song with the default stages.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	id := r.state.AddSong(cmd.StringArg("title"))
	song, _ := r.state.Song(id)
	r.logger.Info("song added", "id", id)
	return r.writePlain("✓ Added song #%d %q\n", id, song.Title)
}

// SongRename sets a song's title.
func (r *Runner) SongRename(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.Int("id"))
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	if !r.state.RenameSong(id, title) {
		return fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	return r.writePlain("✓ Song #%d renamed to %q\n", id, title)
}

// SongRemove deletes a song permanently.
func (r *Runner) SongRemove(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.Int("id"))
	if err := r.open(ctx); err != nil {
		return err
	}

	song, ok := r.state.Song(id)
	if !ok || !r.state.RemoveSong(id) {
		return fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	r.logger.Info("song removed", "id", id)
	return r.writePlain("✓ Removed song #%d %q\n", id, song.Title)
}

// StageAdd appends a stage to a song.
func (r *Runner) StageAdd(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.Int("song"))
	if err := r.open(ctx); err != nil {
		return err
	}

	if !r.state.AddStage(id) {
		return fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	song, _ := r.state.Song(id)
	last := song.Stages[len(song.Stages)-1]
	return r.writePlain("✓ Added %q to song #%d (index %d)\n", last.Name, id, len(song.Stages)-1)
}

// StageSet updates a stage's value and/or name. Values are clamped to 0-100.
func (r *Runner) StageSet(ctx context.Context, cmd *cli.Command) error {
	id, index := int(cmd.Int("song")), int(cmd.Int("index"))

	var patch album.StagePatch
	if cmd.IsSet("value") {
		v := int(cmd.Int("value"))
		patch.Value = &v
	}
	if cmd.IsSet("name") {
		name := cmd.String("name")
		patch.Name = &name
	}
	if patch.Value == nil && patch.Name == nil {
		return fmt.Errorf("%w: --value or --name", shared.ErrMissingArgument)
	}

	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.checkStage(id, index); err != nil {
		return err
	}

	r.state.UpdateStage(id, index, patch)
	song, _ := r.state.Song(id)
	st := song.Stages[index]
	return r.writePlain("✓ Song #%d stage %d: %s = %d%%\n", id, index, st.Name, st.Value)
}

// StageRemove deletes a stage from a song.
func (r *Runner) StageRemove(ctx context.Context, cmd *cli.Command) error {
	id, index := int(cmd.Int("song")), int(cmd.Int("index"))
	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.checkStage(id, index); err != nil {
		return err
	}

	song, _ := r.state.Song(id)
	r.state.RemoveStage(id, index)
	return r.writePlain("✓ Removed %q from song #%d\n", song.Stages[index].Name, id)
}

// checkStage maps an unknown song or index to the matching sentinel error.
func (r *Runner) checkStage(id, index int) error {
	song, ok := r.state.Song(id)
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	if index < 0 || index >= len(song.Stages) {
		return fmt.Errorf("%w: song %d has %d stages, got index %d", shared.ErrStageNotFound, id, len(song.Stages), index)
	}
	return nil
}
