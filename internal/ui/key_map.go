package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up          key.Binding
	down        key.Binding
	left        key.Binding
	right       key.Binding
	enter       key.Binding
	back        key.Binding
	inc         key.Binding
	dec         key.Binding
	incFine     key.Binding
	decFine     key.Binding
	addStage    key.Binding
	removeStage key.Binding
	editStage   key.Binding
	rename      key.Binding
	deadline    key.Binding
	addSong     key.Binding
	removeSong  key.Binding
	yes         key.Binding
	no          key.Binding
	help        key.Binding
	quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		inc:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "+5")),
		dec:         key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "-5")),
		incFine:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "+1")),
		decFine:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "-1")),
		addStage:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add stage")),
		removeStage: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove stage")),
		editStage:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit stage")),
		rename:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		deadline:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "deadline")),
		addSong:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new song")),
		removeSong:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete song")),
		yes:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:          key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.enter, k.back, k.rename, k.deadline},
		{k.inc, k.dec, k.incFine, k.decFine},
		{k.addStage, k.removeStage, k.editStage},
		{k.addSong, k.removeSong, k.quit},
	}
}

// gridHelp lists the bindings active on the grid.
func (k keyMap) gridHelp() []key.Binding {
	return []key.Binding{k.enter, k.rename, k.deadline, k.addSong, k.help, k.quit}
}

// songHelp lists the bindings active while zoomed into a song.
func (k keyMap) songHelp() []key.Binding {
	return []key.Binding{k.inc, k.dec, k.incFine, k.decFine, k.addStage, k.removeStage, k.editStage, k.rename, k.removeSong, k.back, k.quit}
}
