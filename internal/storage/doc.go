// Package storage loads and saves the album document and moves snapshots in and out of the tool.
//
// The album is stored as a single JSON record under a fixed, versioned key (see [DefaultKey]).
// [Store.Load] never fails: a missing key, a database error, or an unparseable record all
// degrade to defaults through package schema. [Store.Save] overwrites the whole record and
// is called after every mutation.
//
// Snapshots are the portable form of the record without the deadline. Imports are stored
// verbatim and only normalized on the next load, since exported files may come from older versions.
package storage
