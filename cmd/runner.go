package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumdash/internal/album"
	"github.com/desertthunder/albumdash/internal/progress"
	"github.com/desertthunder/albumdash/internal/repositories"
	"github.com/desertthunder/albumdash/internal/schema"
	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/desertthunder/albumdash/internal/storage"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	now        func() time.Time
	loc        *time.Location

	db      *sql.DB
	ownsDB  bool
	store   *storage.Store
	state   *album.State
	exports *repositories.ExportRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	// DB is an already migrated database. When nil the runner opens Config.Storage.Path on first use.
	DB       *sql.DB
	Now      func() time.Time
	Location *time.Location
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		now:        opts.Now,
		loc:        opts.Location,
		db:         opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, showCommand, tuiCommand, albumCommand, songCommand, stageCommand,
		exportCommand, importCommand, resetCommand, countdownCommand, reportCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// open connects to the database and loads the album on first use.
func (r *Runner) open(ctx context.Context) error {
	if r.state != nil {
		return nil
	}

	if r.db == nil {
		r.logger.Debug("opening database", "path", r.config.Storage.Path)
		db, err := shared.OpenDatabase(r.config.Storage)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
		r.ownsDB = true
	}

	r.exports = repositories.NewExportRepository(r.db)
	r.store = storage.NewStore(repositories.NewRecordRepository(r.db), storage.StoreOpts{
		Key: r.config.Storage.Key,
		Defaults: schema.Defaults{
			Title:    r.config.Album.Title,
			Deadline: r.config.Album.DeadlineTime(),
		},
		Logger: r.logger,
	})
	r.state = album.Load(ctx, r.store, r.logger)
	return nil
}

// Close releases the database when the runner opened it.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.state = nil
	return err
}

// SetLogger replaces the logger used by the runner and anything it builds afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) threshold() int {
	if r.config.Album.Threshold <= 0 {
		return progress.DefaultThreshold
	}
	return r.config.Album.Threshold
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
