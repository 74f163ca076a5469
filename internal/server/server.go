// Package server exposes roadline over HTTP.
//
// Read endpoints serve the laid-out timeline as frame JSON or SVG. Write
// endpoints (offsets) need a live editor session, passed as
// "Authorization: Bearer <session id>". Interactive scenes let a browser or
// another front end drive a server-side road.Scene with pointer events and
// receive frames back; finished drags are persisted through the same async
// offset writer the terminal view uses.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/pipeline"
	"github.com/rvno/roadline/pkg/session"
	"github.com/rvno/roadline/pkg/timeline"
)

// Config configures the server.
type Config struct {
	Addr         string
	AdminToken   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// SceneTTL evicts interactive scenes idle for longer.
	SceneTTL   time.Duration
	SessionTTL time.Duration
	// Defaults are the pipeline options requests start from.
	Defaults pipeline.Options
}

// EntrySource loads the current entries.
type EntrySource func(ctx context.Context) ([]timeline.Entry, error)

// StaticEntries serves a fixed list.
func StaticEntries(entries []timeline.Entry) EntrySource {
	return func(context.Context) ([]timeline.Entry, error) { return entries, nil }
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	logger   *log.Logger
	runner   *pipeline.Runner
	entries  EntrySource
	offsets  offsets.Store
	writer   *offsets.AsyncWriter
	sessions session.Store
	scenes   *sceneRegistry
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunner sets the pipeline runner (and with it the cache).
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithOffsets sets the offset store.
func WithOffsets(st offsets.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.offsets = st
		}
	}
}

// WithSessions sets the session store.
func WithSessions(st session.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.sessions = st
		}
	}
}

// New returns a server reading entries from src. Stores default to memory.
func New(cfg Config, src EntrySource, opts ...Option) *Server {
	if cfg.SceneTTL <= 0 {
		cfg.SceneTTL = 30 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	s := &Server{
		cfg:      cfg,
		logger:   log.New(io.Discard),
		entries:  src,
		offsets:  offsets.NewMemoryStore(nil),
		sessions: session.NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.writer = offsets.NewAsyncWriter(s.offsets, offsets.WithLogger(s.logger))
	s.scenes = newSceneRegistry(cfg.SceneTTL)
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/timeline", s.handleTimeline)
		r.Get("/timeline.svg", s.handleTimelineSVG)

		r.Get("/offsets", s.handleListOffsets)
		r.With(s.requireEditor).Put("/offsets/{key}", s.handlePutOffset)
		r.With(s.requireEditor).Delete("/offsets/{key}", s.handleDeleteOffset)

		r.Post("/sessions", s.handleLogin)
		r.Delete("/sessions/{id}", s.handleLogout)

		r.Post("/scenes", s.handleCreateScene)
		r.Route("/scenes/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetScene)
			r.Delete("/", s.handleDeleteScene)
			r.Post("/events", s.handleSceneEvent)
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go s.evictLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close drains pending offset writes. Stores are owned by the caller.
func (s *Server) Close() error {
	return s.writer.Close()
}

func (s *Server) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.scenes.evict(now); n > 0 {
				s.logger.Debug("evicted idle scenes", "count", n)
			}
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
