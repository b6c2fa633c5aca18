// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The dashboard has two views, selected by a navigation token resolved through [router.Resolve]:
//  1. Grid : album title, eligible count, album completion, deadline countdown and one card per song
//  2. Zoomed : a single song with its stage list
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving messages via the Msg union type.
// Every edit goes straight to [album.State], which persists the whole album; the view is re-resolved after
// each update so a removed song always drops back to the grid.
//
// Keyboard navigation uses vim-style bindings (h/j/k/l, enter, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help. Text edits (titles, stage names, deadline) use bubbles/textinput.
package ui
