package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumdash/internal/models"
	"github.com/desertthunder/albumdash/internal/progress"
	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the status service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// AlbumReader is the read side of the album state.
type AlbumReader interface {
	Album() models.Album
}

// Options configures a [Server].
type Options struct {
	Threshold int
	Logger    *log.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Server wires the status routes onto a [Router].
type Server struct {
	router Router
	logger *log.Logger
}

// New builds a Server reading from albums.
func New(albums AlbumReader, opts Options) *Server {
	if opts.Threshold <= 0 {
		opts.Threshold = progress.DefaultThreshold
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := NewChiRouter()
	r.Use(middleware.RequestID, Recoverer(opts.Logger), RequestLogger(opts.Logger))
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(handleHealth))
	r.Handler(NewAPIHandler(albums, opts.Threshold, opts.Now))

	return &Server{router: r, logger: opts.Logger}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("status server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down status server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down status server: %w", err)
		}
		return nil
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
