// Package repositories implements SQLite persistence for albumdash.
//
// Key Implementations:
//   - [RecordRepository] : key/value document storage; the album lives under a single versioned key
//   - [ExportRepository] : history of snapshot files written by the export command
//
// Tables are created by the embedded migrations in package shared.
package repositories
