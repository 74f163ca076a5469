// Package drag implements the press/move/release state machine that lets an
// editor reposition timeline markers.
//
// The controller is either idle or holds exactly one [Session]. A session
// opens on press and closes on release or cancel; presses while a session
// is open are ignored. On release the net pointer displacement decides what
// the gesture was: below the click threshold it is a click, otherwise a drag
// whose final offset is handed back for persistence.
//
// Two kinds of sessions exist. Drag sessions move a marker and require edit
// privilege at press time. Tap sessions track a press on something that can
// only be clicked (expanded members, or any marker for a viewer) so that a
// tap and a swipe are told apart the same way.
//
// Edit privilege is checked twice: at press, and again at release. A
// session whose privilege was revoked in between still reports the final
// offset for display but is not marked for persistence.
package drag

import (
	"github.com/google/uuid"

	"github.com/rvno/roadline/pkg/geom"
)

// DefaultClickThreshold is the largest pointer displacement, in pixels,
// that still counts as a click.
const DefaultClickThreshold = 4.0

// Authorizer reports whether the caller may currently move markers.
type Authorizer interface {
	CanEdit() bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func() bool

// CanEdit implements Authorizer.
func (f AuthorizerFunc) CanEdit() bool { return f() }

// Static is an Authorizer with a fixed answer.
type Static bool

// CanEdit implements Authorizer.
func (s Static) CanEdit() bool { return bool(s) }

// Kind classifies a finished gesture.
type Kind int

const (
	// None: nothing happened (cancelled tap, swipe on a non-draggable marker).
	None Kind = iota
	// Click: press and release without meaningful movement.
	Click
	// Drag: the marker was moved.
	Drag
)

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k Kind) String() string {
	switch k {
	case Click:
		return "click"
	case Drag:
		return "drag"
	default:
		return "none"
	}
}

// Session is the state of one gesture. It is never persisted.
type Session struct {
	ID           string
	Target       string
	Draggable    bool
	StartPointer geom.Point
	StartOffset  geom.Offset
	Limits       geom.Limits
	// Last is the most recent pointer position.
	Last geom.Point
	// Current is the live candidate offset of a drag session.
	Current geom.Offset
}

// Result is the outcome of a release or cancel.
type Result struct {
	Kind   Kind
	Target string
	// Offset is the final candidate offset of a drag.
	Offset geom.Offset
	// Persist is true when the drag should be written to the offset store.
	Persist bool
	// Distance is the net pointer displacement of the gesture.
	Distance float64
}

// Controller is the gesture state machine. It is not safe for concurrent
// use; callers drive it from their single event loop.
type Controller struct {
	auth      Authorizer
	threshold float64
	newID     func() string
	session   *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithClickThreshold overrides DefaultClickThreshold.
func WithClickThreshold(px float64) Option {
	return func(c *Controller) {
		if px >= 0 {
			c.threshold = px
		}
	}
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New returns an idle controller. A nil Authorizer never grants edit
// privilege.
func New(auth Authorizer, opts ...Option) *Controller {
	if auth == nil {
		auth = Static(false)
	}
	c := &Controller{
		auth:      auth,
		threshold: DefaultClickThreshold,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClickThreshold returns the configured threshold.
func (c *Controller) ClickThreshold() float64 { return c.threshold }

// Active reports whether a session is open.
func (c *Controller) Active() bool { return c.session != nil }

// Dragging reports whether a drag session is open.
func (c *Controller) Dragging() bool { return c.session != nil && c.session.Draggable }

// Session returns a copy of the open session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Press opens a drag session on target. It is ignored (returns false) when
// a session is already open or the caller may not edit.
func (c *Controller) Press(target string, pointer geom.Point, start geom.Offset, limits geom.Limits) bool {
	if c.session != nil || !c.auth.CanEdit() {
		return false
	}
	c.session = &Session{
		ID:           c.newID(),
		Target:       target,
		Draggable:    true,
		StartPointer: pointer,
		StartOffset:  start,
		Limits:       limits,
		Last:         pointer,
		Current:      limits.Clamp(start),
	}
	return true
}

// PressTap opens a tap session on target. Tap sessions need no privilege.
func (c *Controller) PressTap(target string, pointer geom.Point) bool {
	if c.session != nil {
		return false
	}
	c.session = &Session{
		ID:           c.newID(),
		Target:       target,
		StartPointer: pointer,
		Last:         pointer,
	}
	return true
}

// Move records a pointer position. For a drag session it returns the new
// clamped candidate offset and true.
func (c *Controller) Move(pointer geom.Point) (geom.Offset, bool) {
	s := c.session
	if s == nil {
		return geom.Offset{}, false
	}
	s.Last = pointer
	if !s.Draggable {
		return geom.Offset{}, false
	}
	s.Current = s.candidate(pointer)
	return s.Current, true
}

// Release closes the session with the pointer at its final position.
func (c *Controller) Release(pointer geom.Point) Result {
	s := c.session
	if s == nil {
		return Result{}
	}
	c.session = nil
	s.Last = pointer
	return c.finish(s, Click)
}

// Cancel closes the session at the last observed pointer position. A
// cancelled drag is kept exactly as a release would keep it; a cancelled
// click does nothing.
func (c *Controller) Cancel() Result {
	s := c.session
	if s == nil {
		return Result{}
	}
	c.session = nil
	return c.finish(s, None)
}

func (c *Controller) finish(s *Session, short Kind) Result {
	dist := s.Last.Dist(s.StartPointer)
	res := Result{Target: s.Target, Distance: dist}
	switch {
	case dist == 0 || dist < c.threshold:
		res.Kind = short
	case s.Draggable:
		res.Kind = Drag
		res.Offset = s.candidate(s.Last)
		res.Persist = c.auth.CanEdit()
	default:
		res.Kind = None
	}
	return res
}

func (s *Session) candidate(pointer geom.Point) geom.Offset {
	return s.Limits.Clamp(s.StartOffset.Add(pointer.Sub(s.StartPointer)))
}
