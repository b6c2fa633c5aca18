package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	card     lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(h)).
		Padding(0, 1).
		Width(cardWidth - 2)

	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		card:     card,
		selected: card.BorderForeground(lipgloss.Color(t)),
		cursor:   NewBold(t),
	}
}

// completionStyle colors a percentage by whether it reaches threshold.
func (p *Palette) completionStyle(value, threshold int) lipgloss.Style {
	switch {
	case value >= threshold:
		return p.ok
	case value > 0:
		return p.warn
	default:
		return p.help
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
