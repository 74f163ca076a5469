package road

import (
	"fmt"

	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/road/curve"
	"github.com/rvno/roadline/pkg/road/preview"
	"github.com/rvno/roadline/pkg/timeline"
)

// Kind tells the renderer what a marker represents.
type Kind string

const (
	// KindGroup is a collapsed or expanded year marker.
	KindGroup Kind = "group"
	// KindEntry is a base marker for a single entry (GroupingNone).
	KindEntry Kind = "entry"
	// KindMember is an entry shown around its expanded year marker.
	KindMember Kind = "member"
)

// Marker is one drawable point of a frame.
type Marker struct {
	// ID is unique within a frame. Members use their entry ID, prefixed
	// with "<year>/" when it clashes with a year marker.
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
	// Count is the number of entries behind the marker.
	Count    int         `json:"count"`
	Base     geom.Point  `json:"base"`
	Offset   geom.Offset `json:"offset"`
	Position geom.Point  `json:"position"`
	Expanded bool        `json:"expanded,omitempty"`
	// Draggable is true for base markers; members never move.
	Draggable bool   `json:"draggable,omitempty"`
	Hovered   bool   `json:"hovered,omitempty"`
	Parent    string `json:"parent,omitempty"`
	// Entry is the entry behind an entry or member marker, and the first
	// entry of a year.
	Entry *timeline.Entry `json:"entry,omitempty"`
}

// IsGroup reports whether m is a year marker.
func (m Marker) IsGroup() bool { return m.Kind == KindGroup }

// Preview is the popup of a frame.
type Preview struct {
	MarkerID string         `json:"marker_id"`
	Entry    timeline.Entry `json:"entry"`
	Anchor   geom.Point     `json:"anchor"`
	Side     preview.Side   `json:"side"`
	Box      geom.Rect      `json:"box"`
}

// Frame is everything the renderer needs for one paint.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Markers lists base markers in chronological order followed by the
	// members of the expanded group.
	Markers []Marker   `json:"markers"`
	Path    curve.Path `json:"path"`
	// PathData is Path as SVG path data.
	PathData string   `json:"path_data,omitempty"`
	Preview  *Preview `json:"preview,omitempty"`
	// Dragging is the ID of the marker being dragged.
	Dragging string `json:"dragging,omitempty"`
	Expanded string `json:"expanded,omitempty"`
	Grouping string `json:"grouping"`
	Empty    bool   `json:"empty"`
	// Skipped counts entries left out because their date did not parse.
	Skipped int `json:"skipped,omitempty"`
}

// Marker returns the marker with the given ID.
func (f Frame) Marker(id string) (Marker, bool) {
	for i := len(f.Markers) - 1; i >= 0; i-- {
		if f.Markers[i].ID == id {
			return f.Markers[i], true
		}
	}
	return Marker{}, false
}

// Bases returns the base markers (groups or entries), in order.
func (f Frame) Bases() []Marker {
	out := make([]Marker, 0, len(f.Markers))
	for _, m := range f.Markers {
		if m.Kind != KindMember {
			out = append(out, m)
		}
	}
	return out
}

// Members returns the markers of the expanded group.
func (f Frame) Members() []Marker {
	var out []Marker
	for _, m := range f.Markers {
		if m.Kind == KindMember {
			out = append(out, m)
		}
	}
	return out
}

// MarkerAt returns the topmost marker within radius of p. Members are drawn
// above base markers and win ties.
func (f Frame) MarkerAt(p geom.Point, radius float64) (Marker, bool) {
	best, bestDist, found := Marker{}, radius, false
	for i := len(f.Markers) - 1; i >= 0; i-- {
		m := f.Markers[i]
		if d := m.Position.Dist(p); d <= bestDist && (!found || d < bestDist) {
			best, bestDist, found = m, d, true
		}
	}
	return best, found
}

func groupTitle(g timeline.Group) string {
	if g.Len() == 1 {
		return g.Members[0].Title
	}
	return fmt.Sprintf("%d rides", g.Len())
}
