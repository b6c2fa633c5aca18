package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/gofrs/flock"
)

// DefaultSnapshotFile is the suggested export file name.
const DefaultSnapshotFile = "album_dashboard.json"

// WriteSnapshotFile writes blob to path atomically.
//
// The data goes to a uniquely named temp file in the same directory which is then renamed over path,
// while an advisory lock on path+".lock" keeps concurrent exporters from interleaving.
func WriteSnapshotFile(path string, blob []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	defer lock.Unlock()

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+shared.GenerateID()+".tmp")
	if err := os.WriteFile(tmp, blob, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

// ReadSnapshotFile reads a snapshot file and validates that it is a JSON object.
//
// A shared lock is taken when the directory allows creating the lock file; read-only locations are read unlocked.
func ReadSnapshotFile(path string) ([]byte, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err == nil {
		defer lock.Unlock()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := ValidateSnapshot(data); err != nil {
		return nil, err
	}
	return data, nil
}
