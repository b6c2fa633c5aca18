// Package server provides the read-only HTTP status API for the album dashboard.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [ChiRouter] implementation wraps a [chi.Mux] and adds method filtering per route.
//
// # Status API
//
// [APIHandler] serves the album as JSON:
//   - GET /api/album : title, deadline, countdown, completion, eligibility and every song with its completion
//   - GET /api/view?token=song/<id> : how a navigation token resolves, plus the zoomed song when there is one
//   - GET /api/export : the portable snapshot document, served as an attachment
//
// GET /healthz reports liveness.
//
// Nothing here mutates the album; edits go through the CLI or the terminal UI.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
