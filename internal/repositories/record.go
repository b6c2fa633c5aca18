package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Record is one stored document.
type Record struct {
	Key       string
	Value     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordRepository stores opaque documents by key in the records table.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository with the given database connection
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Get retrieves the document stored under key.
func (r *RecordRepository) Get(ctx context.Context, key string) (*Record, error) {
	query := `
		SELECT key, value, created_at, updated_at
		FROM records
		WHERE key = ?
	`

	var rec Record
	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&rec.Key, &value, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("record", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	rec.Value = []byte(value)
	return &rec, nil
}

// Put inserts or overwrites the document stored under key.
func (r *RecordRepository) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO records (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, string(value), now, now); err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

// Delete removes the document stored under key. Deleting a missing key is not an error.
func (r *RecordRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM records WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Keys lists stored keys in lexical order.
func (r *RecordRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key FROM records ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan record key: %w", err)
		}
		keys = append(keys, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return keys, nil
}
