package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/repositories"
	"github.com/desertthunder/albumdash/internal/schema"
	"github.com/desertthunder/albumdash/internal/shared"
)

// DefaultKey is the storage key shared with earlier versions of the dashboard.
const DefaultKey = "albumProgress_v3"

// Records is the key/value backend used by [Store].
type Records interface {
	Get(ctx context.Context, key string) (*repositories.Record, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Snapshot is the exported document: songs and title, no deadline.
type Snapshot struct {
	Songs      []models.Song `json:"songs"`
	AlbumTitle string        `json:"albumTitle"`
}

// Store persists the album under a single key.
type Store struct {
	records  Records
	key      string
	defaults schema.Defaults
	logger   *log.Logger
}

// StoreOpts configures a [Store].
type StoreOpts struct {
	Key      string
	Defaults schema.Defaults
	Logger   *log.Logger
}

// NewStore creates a Store over records.
func NewStore(records Records, opts StoreOpts) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Defaults.Title == "" {
		opts.Defaults.Title = "Album Dashboard"
	}
	if opts.Defaults.Deadline.IsZero() {
		opts.Defaults.Deadline = shared.DefaultDeadline
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Store{
		records:  records,
		key:      opts.Key,
		defaults: opts.Defaults,
		logger:   opts.Logger,
	}
}

// Load reads the stored album. All failures are absorbed into defaults.
func (s *Store) Load(ctx context.Context) models.Album {
	rec, err := s.records.Get(ctx, s.key)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		s.logger.Debug("no stored album, using defaults", "key", s.key)
		return schema.MigrateAlbum(nil, s.defaults)
	case err != nil:
		s.logger.Warn("failed to read stored album, using defaults", "key", s.key, "error", err)
		return schema.MigrateAlbum(nil, s.defaults)
	}

	if !json.Valid(rec.Value) {
		s.logger.Warn("stored album is not valid JSON, using defaults", "key", s.key)
	}
	return schema.MigrateAlbum(rec.Value, s.defaults)
}

// Save overwrites the stored record with album.
func (s *Store) Save(ctx context.Context, album models.Album) error {
	data, err := json.Marshal(schema.NewRecord(album))
	if err != nil {
		return fmt.Errorf("failed to encode album: %w", err)
	}

	if err := s.records.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save album: %w", err)
	}
	return nil
}

// ExportSnapshot renders the portable snapshot document for songs and title.
func (s *Store) ExportSnapshot(songs []models.Song, title string) ([]byte, error) {
	return ExportSnapshot(songs, title)
}

// ExportSnapshot renders the portable snapshot document for songs and title.
func ExportSnapshot(songs []models.Song, title string) ([]byte, error) {
	if songs == nil {
		songs = []models.Song{}
	}

	data, err := json.MarshalIndent(Snapshot{Songs: songs, AlbumTitle: title}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// ImportSnapshot replaces the stored record with blob.
//
// blob must be a JSON object; anything else returns [shared.ErrInvalidSnapshot] and leaves storage untouched.
// The blob is stored as-is and migrated on the next [Store.Load]. Callers reload afterwards.
func (s *Store) ImportSnapshot(ctx context.Context, blob []byte) error {
	if err := ValidateSnapshot(blob); err != nil {
		return err
	}

	if err := s.records.Put(ctx, s.key, blob); err != nil {
		return fmt.Errorf("failed to store imported snapshot: %w", err)
	}

	s.logger.Info("snapshot imported", "key", s.key, "bytes", len(blob))
	return nil
}

// ResetToDefaults deletes the stored record so the next load uses the built-in catalog.
func (s *Store) ResetToDefaults(ctx context.Context) error {
	if err := s.records.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to reset album: %w", err)
	}

	s.logger.Info("stored album removed", "key", s.key)
	return nil
}

// ValidateSnapshot checks that blob is a JSON object.
func ValidateSnapshot(blob []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidSnapshot, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: expected a JSON object", shared.ErrInvalidSnapshot)
	}
	return nil
}

// Since reports how long ago the record was last written, or false when nothing is stored.
func (s *Store) Since(ctx context.Context, now time.Time) (time.Duration, bool) {
	rec, err := s.records.Get(ctx, s.key)
	if err != nil {
		return 0, false
	}
	return now.Sub(rec.UpdatedAt), true
}
