package album

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/shared"
	"golang.org/x/time/rate"
)

// Saver persists a full album.
type Saver interface {
	Save(ctx context.Context, album models.Album) error
}

// Backend is the storage surface needed for reload, import and reset.
type Backend interface {
	Saver
	Load(ctx context.Context) models.Album
	ImportSnapshot(ctx context.Context, blob []byte) error
	ResetToDefaults(ctx context.Context) error
}

// ErrNoBackend is returned by [State.Import] and [State.Reset] on a State built without a [Backend].
var ErrNoBackend = fmt.Errorf("album state has no storage backend")

// StagePatch describes a partial stage update. Nil fields are left unchanged.
type StagePatch struct {
	Name  *string
	Value *int
}

// State is the album mutation surface.
type State struct {
	mu        sync.RWMutex
	saveMu    sync.Mutex // held from commit through save so storage sees changes in order
	ctx       context.Context
	album     models.Album
	saver     Saver
	backend   Backend
	logger    *log.Logger
	observers []func(models.Album)
	saveLog   rate.Sometimes
}

// New creates a State around album. Saves go to saver; a nil saver disables persistence.
func New(ctx context.Context, album models.Album, saver Saver, logger *log.Logger) *State {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	album = album.Clone()
	album.Deadline = album.Deadline.UTC()
	if album.Songs == nil {
		album.Songs = []models.Song{}
	}

	return &State{
		ctx:     ctx,
		album:   album,
		saver:   saver,
		logger:  logger,
		saveLog: rate.Sometimes{Interval: time.Second},
	}
}

// Load builds a State from backend.Load. The backend also serves saves, reloads, imports and resets.
func Load(ctx context.Context, backend Backend, logger *log.Logger) *State {
	s := New(ctx, backend.Load(ctx), backend, logger)
	s.backend = backend
	return s
}

// OnChange registers fn to be called with a copy of the album after every applied change.
func (s *State) OnChange(fn func(models.Album)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Album returns a deep copy of the current album.
func (s *State) Album() models.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.album.Clone()
}

// Songs returns a deep copy of the song list.
func (s *State) Songs() []models.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneSongs(s.album.Songs)
}

// Song returns a copy of the song with id.
func (s *State) Song(id int) (models.Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Song{}, false
	}
	return s.album.Songs[i].Clone(), true
}

// SongIDs lists song ids in display order.
func (s *State) SongIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.album.SongIDs()
}

// Title returns the album title.
func (s *State) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.album.Title
}

// Deadline returns the release deadline in UTC.
func (s *State) Deadline() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.album.Deadline
}

// RenameAlbum replaces the album title. Blank titles are ignored.
func (s *State) RenameAlbum(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	return s.mutate(func(a *models.Album) bool {
		a.Title = title
		return true
	})
}

// SetDeadline stores deadline as an absolute UTC instant.
func (s *State) SetDeadline(deadline time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	return s.mutate(func(a *models.Album) bool {
		a.Deadline = deadline.UTC()
		return true
	})
}

// RenameSong replaces a song's title. Blank titles are ignored.
func (s *State) RenameSong(id int, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	return s.mutateSong(id, func(song *models.Song) bool {
		song.Title = title
		return true
	})
}

// AddStage appends a stage labelled by its position ("Stage N+1") at 0%.
func (s *State) AddStage(id int) bool {
	return s.mutateSong(id, func(song *models.Song) bool {
		song.Stages = append(song.Stages, models.Stage{Name: models.StageLabel(len(song.Stages) + 1), Value: 0})
		return true
	})
}

// UpdateStage applies patch to the stage at index. Values are clamped to [0,100];
// blank names keep the previous name.
func (s *State) UpdateStage(id, index int, patch StagePatch) bool {
	return s.mutateSong(id, func(song *models.Song) bool {
		if index < 0 || index >= len(song.Stages) {
			return false
		}

		st := song.Stages[index]
		if patch.Name != nil {
			if name := strings.TrimSpace(*patch.Name); name != "" {
				st.Name = name
			}
		}
		if patch.Value != nil {
			st.Value = models.ClampValue(*patch.Value)
		}

		song.Stages[index] = st
		return true
	})
}

// RemoveStage deletes the stage at index, keeping the order of the rest.
func (s *State) RemoveStage(id, index int) bool {
	return s.mutateSong(id, func(song *models.Song) bool {
		if index < 0 || index >= len(song.Stages) {
			return false
		}
		song.Stages = slices.Delete(song.Stages, index, index+1)
		return true
	})
}

// AddSong appends a song with the default stages and returns its id.
//
// A blank title becomes "Song <id>".
func (s *State) AddSong(title string) int {
	var id int
	s.mutate(func(a *models.Album) bool {
		id = models.NextSongID(a.Songs)
		a.Songs = append(a.Songs, models.NewSong(id, strings.TrimSpace(title)))
		return true
	})
	return id
}

// RemoveSong deletes the song with id permanently.
func (s *State) RemoveSong(id int) bool {
	return s.mutate(func(a *models.Album) bool {
		i := indexOf(a.Songs, id)
		if i < 0 {
			return false
		}
		a.Songs = slices.Delete(a.Songs, i, i+1)
		return true
	})
}

// Reload replaces the in-memory album with what the backend currently stores.
func (s *State) Reload(ctx context.Context) {
	if s.backend == nil {
		return
	}
	s.saveMu.Lock()
	notify := s.reload(ctx)
	s.saveMu.Unlock()
	notify()
}

// Import installs blob as the stored record and reloads from it.
//
// On error nothing changes, neither in storage nor in memory.
func (s *State) Import(ctx context.Context, blob []byte) error {
	if s.backend == nil {
		return ErrNoBackend
	}
	s.saveMu.Lock()
	if err := s.backend.ImportSnapshot(ctx, blob); err != nil {
		s.saveMu.Unlock()
		return err
	}
	notify := s.reload(ctx)
	s.saveMu.Unlock()
	notify()
	return nil
}

// Reset deletes the stored record and reloads the built-in defaults.
func (s *State) Reset(ctx context.Context) error {
	if s.backend == nil {
		return ErrNoBackend
	}
	s.saveMu.Lock()
	if err := s.backend.ResetToDefaults(ctx); err != nil {
		s.saveMu.Unlock()
		return err
	}
	notify := s.reload(ctx)
	s.saveMu.Unlock()
	notify()
	return nil
}

// reload swaps in the backend's album and returns the observer notification to run
// once saveMu is released. Callers hold saveMu.
func (s *State) reload(ctx context.Context) func() {
	album := s.backend.Load(ctx)

	s.mu.Lock()
	s.album = album.Clone()
	s.album.Deadline = s.album.Deadline.UTC()
	snapshot, observers := s.album.Clone(), slices.Clone(s.observers)
	s.mu.Unlock()

	s.logger.Info("album reloaded", "songs", len(snapshot.Songs))
	return func() { notify(observers, snapshot) }
}

func (s *State) mutateSong(id int, fn func(*models.Song) bool) bool {
	return s.mutate(func(a *models.Album) bool {
		i := indexOf(a.Songs, id)
		if i < 0 {
			return false
		}
		return fn(&a.Songs[i])
	})
}

// mutate runs fn on a working copy and commits, saves and notifies only when fn reports a change.
func (s *State) mutate(fn func(*models.Album) bool) bool {
	s.saveMu.Lock()
	s.mu.Lock()
	working := s.album.Clone()
	if !fn(&working) {
		s.mu.Unlock()
		s.saveMu.Unlock()
		return false
	}
	s.album = working
	snapshot, observers := working.Clone(), slices.Clone(s.observers)
	s.mu.Unlock()

	s.save(snapshot)
	s.saveMu.Unlock()

	notify(observers, snapshot)
	return true
}

func notify(observers []func(models.Album), album models.Album) {
	for _, fn := range observers {
		fn(album.Clone())
	}
}

func (s *State) save(album models.Album) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(s.ctx, album); err != nil {
		s.logger.Error("failed to save album", "error", err)
		return
	}
	s.saveLog.Do(func() {
		s.logger.Debug("album saved", "songs", len(album.Songs))
	})
}

func (s *State) indexOf(id int) int {
	return indexOf(s.album.Songs, id)
}

func indexOf(songs []models.Song, id int) int {
	return slices.IndexFunc(songs, func(song models.Song) bool { return song.ID == id })
}
