// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/repositories"
	"github.com/desertthunder/albumdash/internal/shared"
)

// MustOpenDB opens a migrated in-memory database that is closed when the test ends.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.OpenDatabase(shared.StorageConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

// FailingRecords is a record backend whose every call fails with err.
type FailingRecords struct {
	err error
}

func NewFailingRecords(err error) *FailingRecords {
	return &FailingRecords{err: err}
}

func (f *FailingRecords) Get(ctx context.Context, key string) (*repositories.Record, error) {
	return nil, f.err
}

func (f *FailingRecords) Put(ctx context.Context, key string, value []byte) error {
	return f.err
}

func (f *FailingRecords) Delete(ctx context.Context, key string) error {
	return f.err
}

// RecordingSaver captures every album passed to Save.
type RecordingSaver struct {
	mu    sync.Mutex
	saves []models.Album
	Err   error
}

func (r *RecordingSaver) Save(ctx context.Context, album models.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, album.Clone())
	return r.Err
}

// Count returns how many saves happened.
func (r *RecordingSaver) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

// Last returns the most recently saved album.
func (r *RecordingSaver) Last() (models.Album, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return models.Album{}, false
	}
	return r.saves[len(r.saves)-1], true
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return dir
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}
