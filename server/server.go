package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-shape-validator/validation"
)

// LoadFunc runs one validation of the configured feed.
type LoadFunc func(ctx context.Context) (*validation.Session, error)

// SnapshotFunc fetches the current vehicle positions.
type SnapshotFunc func(ctx context.Context) (*gtfsrt.Snapshot, error)

// Options configures a Server.
type Options struct {
	Port      int
	Validator *validation.Validator
	Load      LoadFunc
	Vehicles  SnapshotFunc // optional
	Gatherer  prometheus.Gatherer
	Logger    zerolog.Logger

	// RefreshPerMinute limits POST /api/refresh per client IP (default 6).
	RefreshPerMinute int
}

// Server holds the latest session and serves renderings of it.
type Server struct {
	opts Options
	http *http.Server

	mu          sync.RWMutex
	session     *validation.Session
	validatedAt time.Time
	cache       *responseCache
}

// New creates a server. Call Refresh before serving to populate results.
func New(opts Options) *Server {
	if opts.RefreshPerMinute <= 0 {
		opts.RefreshPerMinute = 6
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{opts: opts, cache: newResponseCache()}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/validation.json", s.handleValidation("json"))
		r.Get("/validation.yaml", s.handleValidation("yaml"))
		r.Get("/shapes.geojson", s.handleShapes)
		r.Get("/vehicles.geojson", s.handleVehicles)
		r.With(httprate.LimitByIP(s.opts.RefreshPerMinute, time.Minute)).
			Post("/refresh", s.handleRefresh)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.opts.Logger.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}

// Refresh reruns validation and swaps in the new session. On error the
// previous session is kept.
func (s *Server) Refresh(ctx context.Context) error {
	session, err := s.opts.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.session = session
	s.validatedAt = time.Now()
	s.cache = newResponseCache()
	s.mu.Unlock()
	s.opts.Logger.Info().
		Str("feed", session.Results.FeedFileName).
		Str("status", string(session.Results.LoadStatus)).
		Int("invalid", session.Results.TotalInvalid()).
		Msg("validation refreshed")
	return nil
}

// current returns the latest session with the response cache that belongs to it.
func (s *Server) current() (*validation.Session, time.Time, *responseCache) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.validatedAt, s.cache
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("addr", s.http.Addr).Msg("server listening")
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.opts.Logger.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
