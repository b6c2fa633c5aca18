// package router maps navigation tokens to dashboard views
//
// A token is either empty (the grid) or "song/<id>" (one song zoomed in).
// Tokens that do not name an existing song fall back to the grid, so a deleted
// song can never leave the dashboard pointing at nothing.
package router

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Mode is the kind of view being shown.
type Mode int

const (
	Grid Mode = iota
	Zoomed
)

func (m Mode) String() string {
	switch m {
	case Zoomed:
		return "zoomed"
	default:
		return "grid"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

const songPrefix = "song/"

// GridToken navigates back to the overview.
const GridToken = ""

// View is the result of resolving a token. SongID is set only in [Zoomed] mode.
type View struct {
	Mode   Mode `json:"mode"`
	SongID int  `json:"songId,omitempty"`
}

// String renders the view for logs.
func (v View) String() string {
	if v.Mode == Zoomed {
		return fmt.Sprintf("%s(%d)", v.Mode, v.SongID)
	}
	return v.Mode.String()
}

// Token returns the navigation token that zooms into song id.
func Token(id int) string {
	return songPrefix + strconv.Itoa(id)
}

// ParseToken extracts the song id from token. A leading "#" and surrounding whitespace are ignored.
func ParseToken(token string) (int, bool) {
	token = strings.TrimPrefix(strings.TrimSpace(token), "#")
	rest, ok := strings.CutPrefix(token, songPrefix)
	if !ok {
		return 0, false
	}

	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Resolve returns the view for token given the ids of the songs that currently exist.
func Resolve(token string, ids []int) View {
	id, ok := ParseToken(token)
	if !ok || !slices.Contains(ids, id) {
		return View{Mode: Grid}
	}
	return View{Mode: Zoomed, SongID: id}
}

// Router tracks the current token and re-resolves it as the song list changes.
type Router struct {
	token string
	view  View
}

// New creates a Router showing the grid.
func New() *Router {
	return &Router{token: GridToken, view: View{Mode: Grid}}
}

// Navigate sets the current token and resolves it against ids.
func (r *Router) Navigate(token string, ids []int) View {
	r.token = token
	r.view = Resolve(token, ids)
	return r.view
}

// Refresh re-resolves the current token, e.g. after a song was removed.
func (r *Router) Refresh(ids []int) View {
	r.view = Resolve(r.token, ids)
	if r.view.Mode == Grid {
		r.token = GridToken
	}
	return r.view
}

// View returns the last resolved view.
func (r *Router) View() View { return r.view }

// Token returns the current navigation token.
func (r *Router) Token() string { return r.token }
