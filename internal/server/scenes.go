package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/pipeline"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/session"
)

// liveScene is one interactive scene. A road.Scene is single-threaded, so
// every access goes through mu.
type liveScene struct {
	mu       sync.Mutex
	id       string
	scene    *road.Scene
	lastUsed time.Time
}

// finish ends a drag still in flight so its offset is saved before the
// scene goes away. The caller holds ls.mu.
func (ls *liveScene) finish() {
	if ls.scene.Dragging() {
		ls.scene.PointerCancel()
	}
}

type sceneRegistry struct {
	mu     sync.Mutex
	ttl    time.Duration
	scenes map[string]*liveScene
}

func newSceneRegistry(ttl time.Duration) *sceneRegistry {
	return &sceneRegistry{ttl: ttl, scenes: make(map[string]*liveScene)}
}

func (r *sceneRegistry) add(sc *road.Scene) *liveScene {
	ls := &liveScene{id: uuid.NewString(), scene: sc, lastUsed: time.Now()}
	r.mu.Lock()
	r.scenes[ls.id] = ls
	r.mu.Unlock()
	return ls
}

func (r *sceneRegistry) get(id string) (*liveScene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.scenes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "scene %s not found", id)
	}
	return ls, nil
}

func (r *sceneRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.scenes[id]
	delete(r.scenes, id)
	return ok
}

func (r *sceneRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scenes)
}

// evict drops scenes idle since before now-ttl and returns how many.
func (r *sceneRegistry) evict(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, ls := range r.scenes {
		ls.mu.Lock()
		idle := now.Sub(ls.lastUsed) > r.ttl
		if idle {
			ls.finish()
		}
		ls.mu.Unlock()
		if idle {
			delete(r.scenes, id)
			n++
		}
	}
	return n
}

type sceneResponse struct {
	ID      string     `json:"id"`
	CanEdit bool       `json:"can_edit"`
	Frame   road.Frame `json:"frame"`
}

type sceneEvent struct {
	Type  string  `json:"type"`
	ID    string  `json:"id,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type eventResponse struct {
	Accepted bool          `json:"accepted"`
	Outcome  *road.Outcome `json:"outcome,omitempty"`
	Frame    road.Frame    `json:"frame"`
}

func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var auth road.Authorizer = road.AuthorizerFunc(func() bool { return false })
	if token := bearer(r); token != "" {
		if _, err := session.Require(r.Context(), s.sessions, token); err != nil {
			s.writeError(w, r, err)
			return
		}
		// The scene outlives this request; the check runs on every press
		// and release so a revoked session stops persisting.
		auth = session.Live(context.Background(), s.sessions, token)
	}

	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}

	sc := pipeline.BuildScene(opts.Entries, opts,
		road.WithPersister(s.writer),
		road.WithAuthorizer(auth),
	)
	ls := s.scenes.add(sc)
	s.logger.Debug("scene created", "id", ls.id, "can_edit", sc.CanEdit())

	writeJSON(w, http.StatusCreated, sceneResponse{ID: ls.id, CanEdit: sc.CanEdit(), Frame: sc.Frame()})
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	ls, err := s.scenes.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ls.mu.Lock()
	ls.lastUsed = time.Now()
	resp := sceneResponse{ID: ls.id, CanEdit: ls.scene.CanEdit(), Frame: ls.scene.Frame()}
	ls.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if ls, err := s.scenes.get(id); err == nil {
		ls.mu.Lock()
		ls.finish()
		ls.mu.Unlock()
	}
	if !s.scenes.remove(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "scene %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSceneEvent(w http.ResponseWriter, r *http.Request) {
	ls, err := s.scenes.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var ev sceneEvent
	if err := decodeBody(w, r, &ev); err != nil {
		s.writeError(w, r, err)
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.lastUsed = time.Now()

	resp, err := applyEvent(ls.scene, ev)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resp.Outcome != nil && resp.Outcome.Navigate != "" {
		s.logger.Debug("navigate", "scene", ls.id, "entry", resp.Outcome.Navigate)
	}
	resp.Frame = ls.scene.Frame()
	writeJSON(w, http.StatusOK, resp)
}

// applyEvent feeds one input event to sc.
func applyEvent(sc *road.Scene, ev sceneEvent) (eventResponse, error) {
	p := geom.Pt(ev.X, ev.Y)
	var resp eventResponse

	switch ev.Type {
	case "down":
		resp.Accepted = sc.PointerDown(ev.ID, p)
	case "move":
		resp.Accepted = sc.PointerMove(p)
	case "up":
		out := sc.PointerUp(p)
		resp.Accepted, resp.Outcome = true, &out
	case "cancel":
		out := sc.PointerCancel()
		resp.Accepted, resp.Outcome = true, &out
	case "hover":
		resp.Accepted = sc.Hover(ev.ID)
	case "leave":
		sc.Leave(ev.ID)
		resp.Accepted = true
	case "activate":
		out := sc.Activate(ev.ID)
		resp.Accepted, resp.Outcome = true, &out
	case "resize":
		if err := errors.ValidateCanvasWidth(ev.Width); err != nil {
			return resp, err
		}
		sc.SetCanvasWidth(ev.Width)
		resp.Accepted = true
	default:
		return resp, errors.New(errors.ErrCodeInvalidInput,
			"unknown event %q (want down, move, up, cancel, hover, leave, activate or resize)", ev.Type)
	}
	return resp, nil
}
