// Package schema normalizes persisted album data of any prior shape into the current canonical shape.
//
// Stored records have drifted across versions of the dashboard:
//
//  1. Canonical (v2+): stages are an ordered array of {"name", "value"} objects
//  2. Legacy (v1): stages are an object mapping stage name to a numeric value
//  3. Missing or malformed stages, which fall back to the default stage list
//
// Decoding happens once at load time through [MigrateSongs] and [MigrateAlbum].
// Nothing in this package returns an error: unrecognized input degrades to the built-in defaults.
package schema
