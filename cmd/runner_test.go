package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/albumdash/internal/repositories"
	"github.com/desertthunder/albumdash/internal/shared"
	tu "github.com/desertthunder/albumdash/internal/testing"
	"github.com/urfave/cli/v3"
)

var testNow = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:   shared.DefaultConfig(),
		Logger:   tu.DiscardLogger(),
		Output:   output,
		DB:       tu.MustOpenDB(t),
		Now:      func() time.Time { return testNow },
		Location: time.UTC,
	})
	return runner, output
}

// run executes args against a fresh command tree sharing runner.
func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "albumdash",
		Commands: runner.register(),
		After:    runner.Close,
	}
	return app.Run(context.Background(), append([]string{"albumdash"}, args...))
}

func mustRun(t *testing.T, runner *Runner, args ...string) {
	t.Helper()
	if err := run(t, runner, args...); err != nil {
		t.Fatalf("%v: unexpected error: %v", args, err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("threshold falls back to the default", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Album.Threshold = 0
			runner := NewRunner(RunnerOpts{Config: config})
			if runner.threshold() != 75 {
				t.Errorf("expected 75, got %d", runner.threshold())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "show", "tui", "album", "song", "stage", "export", "import", "reset", "countdown", "report", "serve"} {
			if !names[want] {
				t.Errorf("expected %q to be registered", want)
			}
		}
	})
}

func TestEditCommands(t *testing.T) {
	t.Run("album rename and deadline", func(t *testing.T) {
		runner, output := newTestRunner(t)

		mustRun(t, runner, "album", "rename", "Night Drive")
		mustRun(t, runner, "album", "deadline", "2027-01-02")

		a := runner.state.Album()
		if a.Title != "Night Drive" {
			t.Errorf("expected title, got %q", a.Title)
		}
		if !a.Deadline.Equal(time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected deadline %v", a.Deadline)
		}
		if !strings.Contains(output.String(), "2027-01-02 00:00 UTC") {
			t.Errorf("expected deadline in output, got %s", output.String())
		}
	})

	t.Run("album rename requires a title", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "album", "rename", "  "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("invalid deadline", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "album", "deadline", "next tuesday"); !errors.Is(err, shared.ErrInvalidDeadline) {
			t.Errorf("expected ErrInvalidDeadline, got %v", err)
		}
	})

	t.Run("song add rename rm", func(t *testing.T) {
		runner, output := newTestRunner(t)

		mustRun(t, runner, "song", "add", "Encore")
		if !strings.Contains(output.String(), `#21 "Encore"`) {
			t.Errorf("expected new song 21, got %s", output.String())
		}

		mustRun(t, runner, "song", "rename", "--id", "21", "Finale")
		if song, _ := runner.state.Song(21); song.Title != "Finale" {
			t.Errorf("expected Finale, got %q", song.Title)
		}

		mustRun(t, runner, "song", "rm", "--id", "21")
		if _, ok := runner.state.Song(21); ok {
			t.Error("expected song 21 removed")
		}
	})

	t.Run("unknown song", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		for _, args := range [][]string{
			{"song", "rename", "--id", "99", "Ghost"},
			{"song", "rm", "--id", "99"},
			{"stage", "add", "--song", "99"},
			{"stage", "set", "--song", "99", "--index", "0", "--value", "5"},
		} {
			if err := run(t, runner, args...); !errors.Is(err, shared.ErrSongNotFound) {
				t.Errorf("%v: expected ErrSongNotFound, got %v", args, err)
			}
		}
	})

	t.Run("stage set clamps", func(t *testing.T) {
		runner, output := newTestRunner(t)

		mustRun(t, runner, "stage", "set", "--song", "1", "--index", "0", "--value", "150")
		if !strings.Contains(output.String(), "Demo = 100%") {
			t.Errorf("expected clamped value, got %s", output.String())
		}

		mustRun(t, runner, "stage", "set", "--song", "1", "--index", "1", "--value", "-5", "--name", "Drums")
		song, _ := runner.state.Song(1)
		if song.Stages[1].Name != "Drums" || song.Stages[1].Value != 0 {
			t.Errorf("unexpected stage %+v", song.Stages[1])
		}
	})

	t.Run("stage set validation", func(t *testing.T) {
		runner, _ := newTestRunner(t)

		if err := run(t, runner, "stage", "set", "--song", "1", "--index", "0"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(t, runner, "stage", "set", "--song", "1", "--index", "6", "--value", "5"); !errors.Is(err, shared.ErrStageNotFound) {
			t.Errorf("expected ErrStageNotFound, got %v", err)
		}
		if err := run(t, runner, "stage", "rm", "--song", "1", "--index", "-1"); !errors.Is(err, shared.ErrStageNotFound) {
			t.Errorf("expected ErrStageNotFound, got %v", err)
		}
	})

	t.Run("stage add and rm", func(t *testing.T) {
		runner, output := newTestRunner(t)

		mustRun(t, runner, "stage", "rm", "--song", "2", "--index", "2")
		mustRun(t, runner, "stage", "add", "--song", "2")
		if !strings.Contains(output.String(), `Added "Stage 6"`) {
			t.Errorf("expected positional label, got %s", output.String())
		}
	})

	t.Run("edits persist", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		mustRun(t, runner, "stage", "set", "--song", "3", "--index", "5", "--value", "40")

		if got := runner.store.Load(context.Background()).Songs[2].Stages[5].Value; got != 40 {
			t.Errorf("expected stored value 40, got %d", got)
		}
	})
}

func TestShowCommand(t *testing.T) {
	t.Run("grid", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "show")

		out := output.String()
		for _, want := range []string{"Album Dashboard", "Eligible:   0/20", "31d 00:00:00", "Song 20"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("zoomed", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "show", "--at", "song/4")

		out := output.String()
		if !strings.Contains(out, "#4 Song 4") || !strings.Contains(out, "Instruments") {
			t.Errorf("expected zoomed song, got:\n%s", out)
		}
	})

	t.Run("unknown token shows the grid", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "show", "--at", "song/404")
		if !strings.Contains(output.String(), "Song 20") {
			t.Errorf("expected grid, got:\n%s", output.String())
		}
	})

	t.Run("stored values outside 0-100 are shown clamped", func(t *testing.T) {
		runner, output := newTestRunner(t)
		path := filepath.Join(t.TempDir(), "hot.json")
		tu.MustWriteFile(t, path, `{"albumTitle":"Hot","songs":[{"id":1,"title":"Loud","stages":[{"name":"Demo","value":150},{"name":"Mix","value":-5}]}]}`)
		mustRun(t, runner, "import", path)
		output.Reset()

		mustRun(t, runner, "show", "--at", "song/1")
		out := output.String()
		if strings.Contains(out, "150") || strings.Contains(out, "-5%") {
			t.Errorf("expected clamped values, got:\n%s", out)
		}
		if !strings.Contains(out, "100%") {
			t.Errorf("expected 100%% in output, got:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "stage", "set", "--song", "1", "--index", "0", "--value", "60")
		output.Reset()
		mustRun(t, runner, "show", "--json", "--at", "#song/1")

		var body struct {
			Title     string `json:"title"`
			Countdown string `json:"countdown"`
			View      struct {
				Mode   string `json:"mode"`
				SongID int    `json:"songId"`
			} `json:"view"`
			Song struct {
				Completion int `json:"completion"`
			} `json:"song"`
		}
		if err := json.Unmarshal(output.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output.String())
		}
		if body.View.Mode != "zoomed" || body.View.SongID != 1 {
			t.Errorf("unexpected view %+v", body.View)
		}
		if body.Song.Completion != 10 {
			t.Errorf("expected completion 10, got %d", body.Song.Completion)
		}
		if body.Countdown != "31d 00:00:00" {
			t.Errorf("unexpected countdown %q", body.Countdown)
		}
	})
}

func TestSnapshotCommands(t *testing.T) {
	t.Run("export to file and history", func(t *testing.T) {
		runner, output := newTestRunner(t)
		path := filepath.Join(t.TempDir(), "out", "album.json")

		mustRun(t, runner, "export", "-o", path)
		tu.AssertFileExists(t, path)

		var doc map[string]json.RawMessage
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &doc); err != nil {
			t.Fatalf("invalid export: %v", err)
		}
		if _, ok := doc["targetISO"]; ok {
			t.Error("expected export without targetISO")
		}

		output.Reset()
		mustRun(t, runner, "export", "--history")
		if !strings.Contains(output.String(), "album.json") {
			t.Errorf("expected export in history, got:\n%s", output.String())
		}
	})

	t.Run("export to stdout", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "export", "--stdout")
		if !strings.Contains(output.String(), `"albumTitle": "Album Dashboard"`) {
			t.Errorf("expected snapshot on stdout, got %s", output.String())
		}
	})

	t.Run("empty destination is a no-op", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "export", "-o", "")
		if output.Len() != 0 {
			t.Errorf("expected no output, got %q", output.String())
		}
	})

	t.Run("import", func(t *testing.T) {
		runner, output := newTestRunner(t)
		path := filepath.Join(t.TempDir(), "legacy.json")
		tu.MustWriteFile(t, path, `{"albumTitle":"Legacy","songs":[{"id":5,"title":"Old","stages":{"Demo":"80","Mix":true}}]}`)

		mustRun(t, runner, "import", path)
		if !strings.Contains(output.String(), `Imported "Legacy" with 1 songs`) {
			t.Errorf("unexpected output %s", output.String())
		}

		song, ok := runner.state.Song(5)
		if !ok || song.Stages[0].Value != 80 || song.Stages[1].Value != 1 {
			t.Errorf("unexpected imported song %+v", song)
		}
	})

	t.Run("import rejects invalid files", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		mustRun(t, runner, "album", "rename", "Keep")

		path := filepath.Join(t.TempDir(), "bad.json")
		tu.MustWriteFile(t, path, `[1, 2, 3]`)

		if err := run(t, runner, "import", path); !errors.Is(err, shared.ErrInvalidSnapshot) {
			t.Errorf("expected ErrInvalidSnapshot, got %v", err)
		}
		if runner.state.Title() != "Keep" {
			t.Errorf("expected state untouched, got %q", runner.state.Title())
		}
	})

	t.Run("import requires a file", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "import"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("reset", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "song", "rm", "--id", "1")

		if err := run(t, runner, "reset"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected confirmation error, got %v", err)
		}

		mustRun(t, runner, "reset", "--yes")
		if !strings.Contains(output.String(), "with 20 songs") {
			t.Errorf("expected defaults restored, got %s", output.String())
		}
		if _, ok := runner.state.Song(1); !ok {
			t.Error("expected song 1 back")
		}
	})
}

func TestReportAndCountdown(t *testing.T) {
	t.Run("report formats", func(t *testing.T) {
		tests := []struct {
			format string
			want   string
		}{
			{"csv", "ID,Title,Completion,Eligible,Stages"},
			{"md", "# Album Dashboard"},
			{"txt", "Album: Album Dashboard"},
		}

		for _, tt := range tests {
			t.Run(tt.format, func(t *testing.T) {
				runner, output := newTestRunner(t)
				mustRun(t, runner, "report", "--format", tt.format)
				if !strings.Contains(output.String(), tt.want) {
					t.Errorf("expected %q, got:\n%s", tt.want, output.String())
				}
			})
		}
	})

	t.Run("report to file", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		path := filepath.Join(t.TempDir(), "report.md")
		mustRun(t, runner, "report", "-f", "md", "-o", path)
		tu.AssertFileExists(t, path)
	})

	t.Run("report rejects unknown formats", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "report", "--format", "pdf"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("countdown", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "countdown")
		if !strings.Contains(output.String(), "31d 00:00:00 until") {
			t.Errorf("unexpected countdown %q", output.String())
		}
	})

	t.Run("countdown after the deadline", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "album", "deadline", "2026-06-01")
		output.Reset()
		mustRun(t, runner, "countdown")
		if !strings.Contains(output.String(), "Deadline reached") {
			t.Errorf("unexpected countdown %q", output.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	dbPath := filepath.Join(tmpDir, "albumdash.db")
	t.Setenv(shared.EnvDatabasePath, dbPath)

	t.Run("fresh database", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "setup", "--config", configPath)

		tu.AssertFileExists(t, configPath)
		tu.AssertFileExists(t, dbPath)
		out := output.String()
		if !strings.Contains(out, "migrations applied") {
			t.Errorf("unexpected output %s", out)
		}
		if !strings.Contains(out, "albumProgress_v3 (nothing saved yet, 0 records)") {
			t.Errorf("expected empty storage report, got %s", out)
		}
	})

	t.Run("reports a saved album", func(t *testing.T) {
		db, err := shared.OpenDatabase(shared.StorageConfig{Path: dbPath})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := repositories.NewRecordRepository(db).Put(context.Background(), "albumProgress_v3", []byte(`{}`)); err != nil {
			t.Fatalf("failed to store record: %v", err)
		}
		db.Close()

		runner, output := newTestRunner(t)
		mustRun(t, runner, "setup", "--config", configPath)
		if !strings.Contains(output.String(), "albumProgress_v3 (album saved, 1 records)") {
			t.Errorf("expected saved album in output, got %s", output.String())
		}
	})
}
