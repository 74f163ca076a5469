// Package cluster manages which year group is expanded and where the
// members of an expanded group are drawn.
//
// At most one group is expanded at a time. Activating a group expands it
// and collapses any other; activating the expanded group collapses it.
//
// Members of the expanded group fan out on an arc around the group marker.
// The arc opens towards the wider side of the canvas so member labels grow
// away from the nearest edge, and consecutive members alternate between two
// radii so neighbouring labels do not sit on top of each other.
package cluster

import (
	"math"

	"github.com/rvno/roadline/pkg/geom"
)

// Controller holds the expansion state. The zero value has nothing expanded.
type Controller struct {
	expanded string
}

// Toggle activates key and returns the key that is expanded afterwards
// (empty when key was collapsed). An empty key changes nothing.
func (c *Controller) Toggle(key string) string {
	switch {
	case key == "":
	case c.expanded == key:
		c.expanded = ""
	default:
		c.expanded = key
	}
	return c.expanded
}

// IsExpanded reports whether key is the expanded group.
func (c *Controller) IsExpanded(key string) bool {
	return key != "" && c.expanded == key
}

// Expanded returns the expanded key, or "".
func (c *Controller) Expanded() string { return c.expanded }

// Collapse collapses whatever is expanded.
func (c *Controller) Collapse() { c.expanded = "" }

// Default arc parameters.
const (
	DefaultSpanDegrees = 150.0
	DefaultInnerRadius = 70.0
	DefaultOuterRadius = 105.0
)

// Options shapes the member arc.
type Options struct {
	SpanDegrees float64 `toml:"span_degrees" json:"span_degrees"`
	InnerRadius float64 `toml:"inner_radius" json:"inner_radius"`
	OuterRadius float64 `toml:"outer_radius" json:"outer_radius"`
}

// DefaultOptions returns the arc used by the site.
func DefaultOptions() Options {
	return Options{
		SpanDegrees: DefaultSpanDegrees,
		InnerRadius: DefaultInnerRadius,
		OuterRadius: DefaultOuterRadius,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SpanDegrees <= 0 || o.SpanDegrees > 360 {
		o.SpanDegrees = d.SpanDegrees
	}
	if o.InnerRadius <= 0 {
		o.InnerRadius = d.InnerRadius
	}
	if o.OuterRadius <= 0 {
		o.OuterRadius = d.OuterRadius
	}
	return o
}

// ArcCenter returns the direction, in radians, in which the arc around a
// marker at center opens: 0 (rightwards) on the left half of the canvas,
// π (leftwards) on the right half.
func ArcCenter(center geom.Point, canvas geom.Rect) float64 {
	if center.X > canvas.MinX+canvas.Width()/2 {
		return math.Pi
	}
	return 0
}

// Arrange returns the positions of n members around center, in member
// order. A single member sits at the middle of the arc. Positions are
// clamped into canvas.
func Arrange(center geom.Point, n int, canvas geom.Rect, opts Options) []geom.Point {
	if n <= 0 {
		return nil
	}
	opts = opts.withDefaults()

	mid := ArcCenter(center, canvas)
	span := opts.SpanDegrees * math.Pi / 180
	step := 0.0
	first := mid
	if n > 1 {
		step = span / float64(n-1)
		first = mid - span/2
	}

	out := make([]geom.Point, n)
	for i := range out {
		angle := first + float64(i)*step
		r := opts.InnerRadius
		if i%2 == 1 {
			r = opts.OuterRadius
		}
		p := geom.Pt(center.X+math.Cos(angle)*r, center.Y+math.Sin(angle)*r)
		out[i] = canvas.Clamp(p)
	}
	return out
}
