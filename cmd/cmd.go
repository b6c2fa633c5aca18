// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/albumdash/internal/formatter"
	"github.com/desertthunder/albumdash/internal/storage"
	"github.com/urfave/cli/v3"
)

// setupCommand creates the config file and runs database migrations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// showCommand prints the album overview or one zoomed song
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show album progress",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "at",
				Usage: "Navigation token to show, e.g. song/3",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Show,
	}
}

// tuiCommand launches the interactive dashboard
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive dashboard",
		Action: r.TUI,
	}
}

// albumCommand edits album-level fields
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Edit the album title and deadline",
		Commands: []*cli.Command{
			{
				Name:      "rename",
				Usage:     "Rename the album",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.AlbumRename,
			},
			{
				Name:      "deadline",
				Usage:     "Set the release deadline (RFC 3339, 2006-01-02 15:04, 2006-01-02 or unix seconds)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "when"}},
				Action:    r.AlbumDeadline,
			},
		},
	}
}

// songCommand adds, renames and removes songs
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Manage songs",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a song with the default stages",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.SongAdd,
			},
			{
				Name:      "rename",
				Usage:     "Rename a song",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Song ID", Required: true},
				},
				Action: r.SongRename,
			},
			{
				Name:    "rm",
				Aliases: []string{"remove"},
				Usage:   "Remove a song permanently",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Song ID", Required: true},
				},
				Action: r.SongRemove,
			},
		},
	}
}

// stageCommand edits the stages of one song
func stageCommand(r *Runner) *cli.Command {
	songFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "song", Aliases: []string{"s"}, Usage: "Song ID", Required: true}
	}
	indexFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "index", Aliases: []string{"i"}, Usage: "Stage index (0-based)", Required: true}
	}

	return &cli.Command{
		Name:  "stage",
		Usage: "Manage song stages",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Append a stage at 0%",
				Flags:  []cli.Flag{songFlag()},
				Action: r.StageAdd,
			},
			{
				Name:  "set",
				Usage: "Set a stage's value and/or name",
				Flags: []cli.Flag{
					songFlag(),
					indexFlag(),
					&cli.IntFlag{Name: "value", Aliases: []string{"v"}, Usage: "Completion 0-100 (clamped)"},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Stage name"},
				},
				Action: r.StageSet,
			},
			{
				Name:    "rm",
				Aliases: []string{"remove"},
				Usage:   "Remove a stage",
				Flags:   []cli.Flag{songFlag(), indexFlag()},
				Action:  r.StageRemove,
			},
		},
	}
}

// exportCommand writes the portable snapshot
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export songs and title to a JSON snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
				Value:   storage.DefaultSnapshotFile,
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "Write the snapshot to stdout instead of a file",
			},
			&cli.BoolFlag{
				Name:  "history",
				Usage: "List previous exports instead of exporting",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of history entries",
				Value: 20,
			},
		},
		Action: r.Export,
	}
}

// importCommand replaces the stored album with a snapshot file
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a JSON snapshot, replacing the stored album",
		Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
		Action:    r.Import,
	}
}

// resetCommand restores the default catalog
func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete the stored album and restore defaults",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Confirm the reset",
			},
		},
		Action: r.Reset,
	}
}

// countdownCommand prints the time left until the deadline
func countdownCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "countdown",
		Usage: "Show the time left until the release deadline",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep updating until interrupted",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Refresh interval for --watch",
				Value: time.Second,
			},
		},
		Action: r.Countdown,
	}
}

// reportCommand renders a progress report
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render a progress report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: csv, md or txt",
				Value:   formatter.FormatText,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
		},
		Action: r.Report,
	}
}

// serveCommand starts the read-only status API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only status API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
		},
		Action: r.Serve,
	}
}
