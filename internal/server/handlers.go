package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/desertthunder/albumdash/internal/countdown"
	"github.com/desertthunder/albumdash/internal/formatter"
	"github.com/desertthunder/albumdash/internal/router"
	"github.com/desertthunder/albumdash/internal/storage"
)

const (
	albumRoute  = "/api/album"
	viewRoute   = "/api/view"
	exportRoute = "/api/export"
)

var _ Handler = (*APIHandler)(nil)

// APIHandler serves the read-only album endpoints.
type APIHandler struct {
	albums    AlbumReader
	threshold int
	now       func() time.Time
}

// NewAPIHandler creates an [APIHandler].
func NewAPIHandler(albums AlbumReader, threshold int, now func() time.Time) *APIHandler {
	return &APIHandler{albums: albums, threshold: threshold, now: now}
}

// Routes returns the paths served by this handler.
func (h *APIHandler) Routes() []string {
	return []string{albumRoute, viewRoute, exportRoute}
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case albumRoute:
		h.handleAlbum(w, r)
	case viewRoute:
		h.handleView(w, r)
	case exportRoute:
		h.handleExport(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// albumResponse is a report plus human-readable countdown fields.
type albumResponse struct {
	formatter.Report
	Countdown string `json:"countdown"`
	Relative  string `json:"relative"`
}

func (h *APIHandler) handleAlbum(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	a := h.albums.Album()
	report := formatter.NewReport(a, now, h.threshold)

	writeJSON(w, http.StatusOK, albumResponse{
		Report:    report,
		Countdown: report.Remaining.String(),
		Relative:  countdown.Relative(now, a.Deadline),
	})
}

type viewResponse struct {
	Token string             `json:"token"`
	View  router.View        `json:"view"`
	Song  *formatter.SongRow `json:"song,omitempty"`
}

func (h *APIHandler) handleView(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	a := h.albums.Album()
	view := router.Resolve(token, a.SongIDs())

	resp := viewResponse{Token: token, View: view}
	if view.Mode == router.Zoomed {
		report := formatter.NewReport(a, h.now(), h.threshold)
		for i := range report.Songs {
			if report.Songs[i].ID == view.SongID {
				resp.Song = &report.Songs[i]
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	a := h.albums.Album()
	blob, err := storage.ExportSnapshot(a.Songs, a.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+storage.DefaultSnapshotFile+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
