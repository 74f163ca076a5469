// Package preview tracks the single marker whose preview popup is shown.
//
// Markers are identified by ID: an entry ID for ride markers, a year key
// for collapsed year markers. Resolving the ID to the entry shown in the
// popup is up to the caller.
package preview

import (
	"fmt"
	"math"

	"github.com/rvno/roadline/pkg/geom"
)

// Side is where the popup sits relative to its anchor.
type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// MarshalText encodes the side as "left" or "right".
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes "left" or "right".
func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "left":
		*s = Left
	case "right", "":
		*s = Right
	default:
		return fmt.Errorf("invalid side %q", b)
	}
	return nil
}

// SideFor returns Left when anchor lies right of the canvas midline, so the
// popup always opens towards the middle.
func SideFor(anchor geom.Point, canvasWidth float64) Side {
	if anchor.X > canvasWidth/2 {
		return Left
	}
	return Right
}

// State is the current preview. The zero value shows nothing.
type State struct {
	ID     string     `json:"id"`
	Anchor geom.Point `json:"anchor"`
	Side   Side       `json:"side"`
}

// Active reports whether a preview is shown.
func (s State) Active() bool { return s.ID != "" }

// Controller holds the preview state. Last hover wins.
type Controller struct {
	state State
}

// Hover shows marker id anchored at anchor. An empty ID clears the preview.
func (c *Controller) Hover(id string, anchor geom.Point, canvasWidth float64) {
	if id == "" {
		c.state = State{}
		return
	}
	c.state = State{ID: id, Anchor: anchor, Side: SideFor(anchor, canvasWidth)}
}

// Leave clears the preview if id is the one shown. A stale leave for a
// marker that was already replaced does nothing.
func (c *Controller) Leave(id string) {
	if c.state.ID == id {
		c.state = State{}
	}
}

// Clear hides any preview.
func (c *Controller) Clear() { c.state = State{} }

// Current returns the preview state.
func (c *Controller) Current() State { return c.state }

// Popup geometry, in pixels.
const (
	PopupWidth   = 240.0
	PopupHeight  = 180.0
	PopupGap     = 16.0
	PopupRaise   = 50.0
	popupLeftOff = PopupWidth + PopupGap
)

// Popup returns the box of a popup anchored at anchor on side, kept inside
// a width x height canvas where possible.
func Popup(anchor geom.Point, side Side, width, height float64) geom.Rect {
	x := anchor.X + PopupGap
	if side == Left {
		x = anchor.X - popupLeftOff
	}
	y := anchor.Y - PopupRaise
	x = math.Max(0, math.Min(x, width-PopupWidth))
	y = math.Max(0, math.Min(y, height-PopupHeight))
	return geom.Rect{MinX: x, MinY: y, MaxX: x + PopupWidth, MaxY: y + PopupHeight}
}
