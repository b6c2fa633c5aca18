package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/albumdash/internal/shared"
)

// ExportEntry records one snapshot file written to disk.
type ExportEntry struct {
	ID        string
	Path      string
	Bytes     int
	CreatedAt time.Time
}

// ExportRepository keeps the export history.
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new ExportRepository with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts an entry, assigning its ID and timestamp.
func (r *ExportRepository) Create(ctx context.Context, e *ExportEntry) error {
	if e.Path == "" {
		return fmt.Errorf("%w: export path is required", shared.ErrInvalidInput)
	}

	e.ID = shared.GenerateID()
	e.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO exports (id, path, bytes, created_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, e.ID, e.Path, e.Bytes, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns everything.
func (r *ExportRepository) List(ctx context.Context, limit int) ([]*ExportEntry, error) {
	query := "SELECT id, path, bytes, created_at FROM exports ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var entries []*ExportEntry
	for rows.Next() {
		var e ExportEntry
		if err := rows.Scan(&e.ID, &e.Path, &e.Bytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exports: %w", err)
	}
	return entries, nil
}
