package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/albumdash/internal/formatter"
	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/progress"
)

// cardWidth is the outer width of a grid card, borders included.
const cardWidth = 26

// songCard renders one grid card.
func songCard(song models.Song, threshold int, selected bool) string {
	c := progress.SongCompletion(song)
	title := truncate(song.Title, cardWidth-6)
	bar := formatter.ProgressBar(c, cardWidth-12)
	pct := styles.completionStyle(c, threshold).Render(fmt.Sprintf("%3d%%", c))

	body := fmt.Sprintf("#%d %s\n%s %s\n%s", song.ID, title, bar, pct, styles.help.Render(stageSummary(song)))
	if selected {
		return styles.selected.Render(body)
	}
	return styles.card.Render(body)
}

// songGrid lays cards out in rows of cols.
func songGrid(songs []models.Song, threshold, cursor, cols int) string {
	if len(songs) == 0 {
		return styles.help.Render("No songs. Press n to add one.")
	}

	var rows []string
	for start := 0; start < len(songs); start += cols {
		end := min(start+cols, len(songs))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, songCard(songs[i], threshold, i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// stageLine renders one stage row of the zoomed view.
func stageLine(st models.Stage, selected bool) string {
	prefix := "  "
	name := fmt.Sprintf("%-16s", truncate(st.Name, 16))
	if selected {
		prefix = styles.cursor.Render("> ")
		name = styles.cursor.Render(name)
	}
	v := models.ClampValue(st.Value)
	return fmt.Sprintf("%s%s %s %3d%%", prefix, name, formatter.ProgressBar(v, 20), v)
}

func stageSummary(song models.Song) string {
	done := 0
	for _, st := range song.Stages {
		if st.Value >= models.MaxStageValue {
			done++
		}
	}
	return fmt.Sprintf("%d/%d stages done", done, len(song.Stages))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
