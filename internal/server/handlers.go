package server

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/pipeline"
	"github.com/rvno/roadline/pkg/session"
	"github.com/rvno/roadline/pkg/timeline"
)

type ctxKey int

const sessionKey ctxKey = iota

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Timeline
// =============================================================================

// requestOptions builds pipeline options from the defaults, the current
// entries and offsets, and the query string.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Source = ""
	opts.Formats = slices.Clone(opts.Formats)
	opts.Logger = s.logger

	q := r.URL.Query()
	if v := q.Get("width"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidCanvas, "width must be a number")
		}
		opts.Width = w
	}
	for param, dst := range map[string]*string{
		"expanded": &opts.Expanded,
		"preview":  &opts.Preview,
		"style":    &opts.Style,
		"grouping": &opts.Grouping,
		"type":     &opts.Type,
	} {
		if v := q.Get(param); v != "" {
			*dst = v
		}
	}
	if q.Get("popups") == "1" || q.Get("popups") == "true" {
		opts.Popups = true
	}

	entries, err := s.loadEntries(r.Context())
	if err != nil {
		return opts, err
	}
	offs, err := offsets.Snapshot(r.Context(), s.offsets)
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeStorage, err, "load offsets")
	}
	opts.Entries = entries
	opts.Offsets = offs
	return opts, nil
}

func (s *Server) loadEntries(ctx context.Context) ([]timeline.Entry, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		if errors.GetCode(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load entries")
		}
		return nil, err
	}
	if entries == nil {
		entries = []timeline.Entry{}
	}
	return entries, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, format, contentType string) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, contentType, res.Artifacts[format])
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pipeline.FormatJSON, "application/json")
}

func (s *Server) handleTimelineSVG(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pipeline.FormatSVG, "image/svg+xml")
}

// =============================================================================
// Offsets
// =============================================================================

func (s *Server) handleListOffsets(w http.ResponseWriter, r *http.Request) {
	all, err := offsets.Snapshot(r.Context(), s.offsets)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "list offsets"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offsets": all})
}

func (s *Server) handlePutOffset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := errors.ValidateKey(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	var o geom.Offset
	if err := decodeBody(w, r, &o); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Clamp against the canvas the offset will be drawn on.
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}
	f := pipeline.GenerateFrame(opts.Entries, opts)
	o = opts.SceneConfig().Policy.Clamp(o, f.Width, f.Height)

	if err := s.writer.Flush(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.offsets.Set(r.Context(), key, o); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeStorage, err, "save offset %s", key)
		}
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("offset saved", "key", key, "dx", o.DX, "dy", o.DY, "by", sessionFrom(r.Context()).Name)
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "offset": o})
}

func (s *Server) handleDeleteOffset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := errors.ValidateKey(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Drag releases still queued for key must not land after the delete.
	if err := s.writer.Flush(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.offsets.Delete(r.Context(), key); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "delete offset %s", key))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Sessions
// =============================================================================

type loginRequest struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
}

type sessionResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name,omitempty"`
	Role      session.Role `json:"role"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := session.Login(req.Token, s.cfg.AdminToken, req.Name, s.cfg.SessionTTL)
	if err != nil {
		s.logger.Warn("login rejected", "remote", r.RemoteAddr)
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "save session"))
		return
	}
	s.logger.Info("editor session opened", "name", sess.Name, "expires", sess.ExpiresAt)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Name: sess.Name, Role: sess.Role, ExpiresAt: sess.ExpiresAt})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireEditor rejects requests without a live editor session.
func (s *Server) requireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.Require(r.Context(), s.sessions, bearer(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return &session.Session{}
}
