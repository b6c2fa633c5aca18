// Package models defines the domain entities tracked by albumdash.
//
// The data model is a single root aggregate:
//
//   - [Album] : the album title, release deadline and ordered song list
//   - [Song] : a titled unit of work with an ordered list of stages
//   - [Stage] : a named sub-task ("bit") with a 0-100 completion value
//
// Songs and stages carry JSON tags matching the persisted record so that
// older versions reading the same storage key keep working.
// Completion percentages are never stored; see package progress.
package models
