// Package album holds the in-memory source of truth for a dashboard session.
//
// [State] owns the single [models.Album] for the process. Every mutation
//
//  1. applies the change to the in-memory album,
//  2. keeps the model invariants (clamped values, unique song ids, stable ordering),
//  3. hands the whole album to a [Saver] immediately afterwards.
//
// Mutations that reference an unknown song id or stage index change nothing, skip the save,
// and report false. Save failures are logged and otherwise ignored; the in-memory album stays authoritative.
// Saves reach the [Saver] in the order their changes were committed.
//
// Observers registered with [State.OnChange] are called after each applied change so that
// views can recompute derived state such as the current route.
package album
