package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTick MsgKind = iota
	MsgStatus
)

// tickMsg is the constructor for [MsgTick]
func tickMsg(now time.Time) Msg {
	return Msg{kind: MsgTick, data: now}
}

// statusClearMsg is the constructor for [MsgStatus]; seq identifies the status line it clears.
func statusClearMsg(seq int) Msg {
	return Msg{kind: MsgStatus, data: seq}
}
