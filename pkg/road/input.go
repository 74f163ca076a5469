package road

import (
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/observability"
	"github.com/rvno/roadline/pkg/road/drag"
)

// Outcome reports what a release, cancel or activation did.
type Outcome struct {
	Gesture drag.Kind `json:"gesture"`
	Target  string    `json:"target,omitempty"`
	// Offset and Persisted describe a completed drag.
	Offset    geom.Offset `json:"offset"`
	Persisted bool        `json:"persisted,omitempty"`
	// Expanded is the expanded group after a click on a year marker.
	Expanded string `json:"expanded,omitempty"`
	// Navigate is the entry opened by a click on a ride marker.
	Navigate string `json:"navigate,omitempty"`
}

// PointerDown presses marker id at p. Editors pressing a base marker start
// a drag; everything else starts a tap. It returns false when the press was
// ignored (unknown marker, or a gesture already in progress).
func (s *Scene) PointerDown(id string, p geom.Point) bool {
	if s.drag.Active() {
		return false
	}
	f := s.frame()
	m, ok := f.Marker(id)
	if !ok {
		return false
	}
	if m.Draggable {
		limits := s.cfg.Policy.Limits(f.Width, f.Height)
		if s.drag.Press(id, p, m.Offset, limits) {
			observability.Interaction().OnDragStart(id)
			s.logger.Debug("drag start", "marker", id, "x", p.X, "y", p.Y)
			return true
		}
	}
	return s.drag.PressTap(id, p)
}

// PointerMove feeds a pointer position. It reports whether the frame
// changed (a drag moved its marker).
func (s *Scene) PointerMove(p geom.Point) bool {
	_, moved := s.drag.Move(p)
	return moved
}

// PointerUp releases the pointer at p.
func (s *Scene) PointerUp(p geom.Point) Outcome {
	return s.finish(s.drag.Release(p))
}

// PointerCancel aborts the gesture (touch cancel, pointer lost). A drag is
// kept and persisted as if released at the last position; a tap does
// nothing.
func (s *Scene) PointerCancel() Outcome {
	return s.finish(s.drag.Cancel())
}

func (s *Scene) finish(res drag.Result) Outcome {
	out := Outcome{Gesture: res.Kind, Target: res.Target}
	switch res.Kind {
	case drag.Drag:
		w, h := s.size()
		res.Offset = s.cfg.Policy.Clamp(res.Offset, w, h)
		s.offsets[res.Target] = res.Offset
		out.Offset = res.Offset
		if res.Persist {
			s.persister.Persist(res.Target, res.Offset)
			out.Persisted = true
		} else {
			s.logger.Warn("edit privilege revoked, offset not saved", "marker", res.Target)
		}
		s.logger.Debug("drag end", "marker", res.Target, "dx", res.Offset.DX, "dy", res.Offset.DY, "saved", out.Persisted)
	case drag.Click:
		act := s.Activate(res.Target)
		out.Expanded, out.Navigate = act.Expanded, act.Navigate
	}
	if res.Target != "" {
		observability.Interaction().OnDragEnd(res.Target, res.Kind.String(), out.Persisted)
	}
	return out
}

// Activate clicks marker id: a year marker toggles its expansion, a ride
// marker is opened through the Navigator. Unknown IDs do nothing.
func (s *Scene) Activate(id string) Outcome {
	m, ok := s.frame().Marker(id)
	if !ok {
		return Outcome{}
	}
	out := Outcome{Gesture: drag.Click, Target: id}
	if m.IsGroup() {
		out.Expanded = s.Toggle(id)
		s.logger.Debug("toggle", "group", id, "expanded", out.Expanded)
		return out
	}
	if m.Entry != nil {
		out.Navigate = m.Entry.ID
		out.Expanded = s.cluster.Expanded()
		observability.Interaction().OnNavigate(m.Entry.ID)
		s.navigator.NavigateToEntry(m.Entry.ID)
	}
	return out
}

// Hover shows the preview of marker id.
func (s *Scene) Hover(id string) bool {
	f := s.frame()
	m, ok := f.Marker(id)
	if !ok {
		return false
	}
	s.preview.Hover(id, m.Position, f.Width)
	return true
}

// Leave hides the preview of marker id if it is the one shown.
func (s *Scene) Leave(id string) { s.preview.Leave(id) }

// MarkerAt returns the ID of the topmost marker within radius of p.
func (s *Scene) MarkerAt(p geom.Point, radius float64) (string, bool) {
	m, ok := s.frame().MarkerAt(p, radius)
	return m.ID, ok
}
