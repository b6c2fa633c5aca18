package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/albumdash/internal/countdown"
	"github.com/desertthunder/albumdash/internal/formatter"
	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/router"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

const displayLayout = "Mon 2006-01-02 15:04 MST"

// showResponse is the JSON document printed by show --json.
type showResponse struct {
	formatter.Report
	Countdown string             `json:"countdown"`
	View      router.View        `json:"view"`
	Song      *formatter.SongRow `json:"song,omitempty"`
}

// Show prints the grid overview, or a single song when --at resolves to one.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	now := r.now()
	a := r.state.Album()
	report := formatter.NewReport(a, now, r.threshold())

	token := cmd.String("at")
	view := router.Resolve(token, a.SongIDs())
	if token != "" && view.Mode == router.Grid {
		r.logger.Warn("token does not name a song, showing the grid", "token", token)
	}

	var song *formatter.SongRow
	if view.Mode == router.Zoomed {
		for i := range report.Songs {
			if report.Songs[i].ID == view.SongID {
				song = &report.Songs[i]
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(showResponse{
			Report:    report,
			Countdown: report.Remaining.String(),
			View:      view,
			Song:      song,
		}, cmd.Bool("pretty"))
	}

	if song != nil {
		return r.showSong(*song)
	}
	return r.showGrid(ctx, a, report, now)
}

func (r *Runner) showGrid(ctx context.Context, a models.Album, report formatter.Report, now time.Time) error {
	r.writePlainHeader(a.Title)
	r.writePlain("Deadline:   %s (%s)\n", a.Deadline.In(r.loc).Format(displayLayout), countdown.Relative(now, a.Deadline))
	r.writePlain("Countdown:  %s\n", report.Remaining)
	r.writePlain("Completion: %s %d%%\n", formatter.ProgressBar(report.Summary.Completion, 20), report.Summary.Completion)
	r.writePlain("Eligible:   %d/%d (≥%d%%)\n", report.Summary.Eligible, report.Summary.Total, report.Summary.Threshold)
	if since, ok := r.store.Since(ctx, now); ok {
		r.writePlain("Last saved: %s\n", humanize.Time(now.Add(-since)))
	}

	rows := make([][]string, len(report.Songs))
	for i, s := range report.Songs {
		eligible := ""
		if s.Eligible {
			eligible = "✓"
		}
		rows[i] = []string{
			strconv.Itoa(s.ID),
			s.Title,
			formatter.ProgressBar(s.Completion, 10),
			fmt.Sprintf("%d%%", s.Completion),
			eligible,
			strconv.Itoa(len(s.Stages)),
		}
	}

	r.writePlain("\n%s\n", renderTable(r.output,
		[]string{"ID", "Title", "Progress", "Done", "Eligible", "Stages"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
	))
	return nil
}

func (r *Runner) showSong(song formatter.SongRow) error {
	r.writePlainHeader(fmt.Sprintf("#%d %s", song.ID, song.Title))
	r.writePlain("Completion: %s %d%%\n", formatter.ProgressBar(song.Completion, 20), song.Completion)
	r.writePlain("Token:      %s\n", router.Token(song.ID))

	rows := make([][]string, len(song.Stages))
	for i, st := range song.Stages {
		rows[i] = []string{
			strconv.Itoa(i),
			st.Name,
			formatter.ProgressBar(st.Value, 10),
			fmt.Sprintf("%d%%", st.Value),
		}
	}

	r.writePlain("\n%s\n", renderTable(r.output,
		[]string{"#", "Stage", "Progress", "Value"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
	return nil
}
