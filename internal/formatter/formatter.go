// package formatter renders album progress reports (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/albumdash/internal/countdown"
	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/progress"
)

// Format names accepted by [Render].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
)

// SongRow is one song with its derived completion.
type SongRow struct {
	ID         int            `json:"id"`
	Title      string         `json:"title"`
	Completion int            `json:"completion"`
	Eligible   bool           `json:"eligible"`
	Stages     []models.Stage `json:"stages"`
}

// Report is a point-in-time view of an album with everything derived from it.
type Report struct {
	Title       string           `json:"title"`
	Deadline    time.Time        `json:"deadline"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Remaining   countdown.Parts  `json:"remaining"`
	Summary     progress.Summary `json:"summary"`
	Songs       []SongRow        `json:"songs"`
}

// NewReport derives a report for album at now using threshold for eligibility.
func NewReport(album models.Album, now time.Time, threshold int) Report {
	rows := make([]SongRow, len(album.Songs))
	for i, s := range album.Songs {
		c := progress.SongCompletion(s)
		rows[i] = SongRow{
			ID:         s.ID,
			Title:      s.Title,
			Completion: c,
			Eligible:   c >= threshold,
			Stages:     displayStages(s.Stages),
		}
	}

	return Report{
		Title:       album.Title,
		Deadline:    album.Deadline.UTC(),
		GeneratedAt: now.UTC(),
		Remaining:   countdown.Remaining(now, album.Deadline),
		Summary:     progress.Summarize(album.Songs, threshold),
		Songs:       rows,
	}
}

// displayStages copies stages with values clamped to 0-100.
func displayStages(stages []models.Stage) []models.Stage {
	out := make([]models.Stage, len(stages))
	for i, st := range stages {
		out[i] = models.Stage{Name: st.Name, Value: models.ClampValue(st.Value)}
	}
	return out
}

// ProgressBar draws value (0-100) as a fixed-width bar, e.g. "[#####-----]".
func ProgressBar(value, width int) string {
	if width <= 0 {
		return "[]"
	}
	filled := models.ClampValue(value) * width / models.MaxStageValue
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// ToCSV converts a report to CSV with columns: ID, Title, Completion, Eligible, Stages.
//
// Stages are written as "name=value" pairs joined by ";".
func ToCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Completion", "Eligible", "Stages"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range r.Songs {
		record := []string{
			strconv.Itoa(song.ID),
			song.Title,
			strconv.Itoa(song.Completion),
			strconv.FormatBool(song.Eligible),
			stagePairs(song.Stages),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown converts a report to a Markdown document with a summary and one table per song.
func ToMarkdown(r Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", r.Title)
	fmt.Fprintf(&buf, "**Deadline**: %s (%s left)\n", r.Deadline.Format(time.RFC3339), r.Remaining)
	fmt.Fprintf(&buf, "**Completion**: %d%%\n", r.Summary.Completion)
	fmt.Fprintf(&buf, "**Eligible**: %d/%d (threshold %d%%)\n\n", r.Summary.Eligible, r.Summary.Total, r.Summary.Threshold)

	buf.WriteString("## Songs\n\n")
	for _, song := range r.Songs {
		mark := " "
		if song.Eligible {
			mark = "x"
		}
		fmt.Fprintf(&buf, "### [%s] %d. %s (%d%%)\n\n", mark, song.ID, song.Title, song.Completion)
		if len(song.Stages) == 0 {
			buf.WriteString("_No stages._\n\n")
			continue
		}

		buf.WriteString("| Stage | Value |\n|---|---|\n")
		for _, st := range song.Stages {
			fmt.Fprintf(&buf, "| %s | %d%% |\n", escapeCell(st.Name), st.Value)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ToText converts a report to plain text with progress bars.
func ToText(r Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Album: %s\n", r.Title)
	fmt.Fprintf(&buf, "Deadline: %s (%s)\n", r.Deadline.Format(time.RFC3339), r.Remaining)
	fmt.Fprintf(&buf, "Completion: %s %d%%\n", ProgressBar(r.Summary.Completion, 20), r.Summary.Completion)
	fmt.Fprintf(&buf, "Eligible: %d/%d\n\n", r.Summary.Eligible, r.Summary.Total)

	for _, song := range r.Songs {
		fmt.Fprintf(&buf, "%d. %s %s %d%%\n", song.ID, song.Title, ProgressBar(song.Completion, 10), song.Completion)
		for _, st := range song.Stages {
			fmt.Fprintf(&buf, "   - %s: %d%%\n", st.Name, st.Value)
		}
	}

	return buf.Bytes(), nil
}

// Render dispatches on format name.
func Render(r Report, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return ToCSV(r)
	case FormatMarkdown, "markdown":
		return ToMarkdown(r)
	case FormatText, "text", "":
		return ToText(r)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// WriteReport renders r and writes it to path.
//
// Defaults to album_report.{format} as the filename.
func WriteReport(r Report, format, path string) (string, error) {
	data, err := Render(r, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "album_report." + strings.ToLower(strings.TrimSpace(format))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

func stagePairs(stages []models.Stage) string {
	parts := make([]string, len(stages))
	for i, st := range stages {
		parts[i] = st.Name + "=" + strconv.Itoa(st.Value)
	}
	return strings.Join(parts, ";")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
