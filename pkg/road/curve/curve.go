// Package curve fits a smooth path through an ordered list of points.
//
// The fitter converts a Catmull-Rom spline into cubic Bézier segments, so
// the resulting path interpolates (passes exactly through) every input
// point. One synthetic point is added before the first and after the last
// input point, offset vertically, to give the road a lead-in and a tail.
//
// Paths are values: they are recomputed from the current point list every
// time, never patched.
package curve

import (
	"fmt"
	"math"
	"strings"

	"github.com/rvno/roadline/pkg/geom"
)

// Default fitter parameters.
const (
	DefaultTension = 1.0
	DefaultLead    = 30.0
)

// Options controls curve fitting.
type Options struct {
	// Tension scales the tangents. 1 is the uniform Catmull-Rom spline,
	// 0 degenerates into straight lines.
	Tension float64 `toml:"tension" json:"tension"`
	// Lead is the vertical distance of the synthetic entry and exit points.
	Lead float64 `toml:"lead" json:"lead"`
}

// DefaultOptions returns the fitter settings used for the road.
func DefaultOptions() Options {
	return Options{Tension: DefaultTension, Lead: DefaultLead}
}

// Segment is one cubic Bézier piece; it starts where the previous segment
// (or the path Start) ends.
type Segment struct {
	C1  geom.Point `json:"c1"`
	C2  geom.Point `json:"c2"`
	End geom.Point `json:"end"`
}

// Path is a continuous chain of cubic segments.
//
// For a path fitted from n input points there are n+1 segments: segment 0
// runs from the synthetic lead-in point to input 0, segment i ends at input
// i, and the last segment ends at the synthetic tail point.
type Path struct {
	Start    geom.Point `json:"start"`
	Segments []Segment  `json:"segments,omitempty"`
}

// Empty reports whether the path has nothing to draw.
func (p Path) Empty() bool { return len(p.Segments) == 0 }

// Fit returns the smooth path through points. Fewer than two points give
// an empty path.
func Fit(points []geom.Point, opts Options) Path {
	if len(points) < 2 {
		return Path{}
	}
	if opts.Lead < 0 || math.IsNaN(opts.Lead) {
		opts.Lead = 0
	}

	first, last := points[0], points[len(points)-1]
	padded := make([]geom.Point, 0, len(points)+2)
	padded = append(padded, geom.Pt(first.X, first.Y-opts.Lead))
	padded = append(padded, points...)
	padded = append(padded, geom.Pt(last.X, last.Y+opts.Lead))

	k := opts.Tension / 6
	path := Path{Start: padded[0], Segments: make([]Segment, 0, len(padded)-1)}
	for i := 0; i < len(padded)-1; i++ {
		p0 := padded[max(i-1, 0)]
		p1 := padded[i]
		p2 := padded[i+1]
		p3 := padded[min(i+2, len(padded)-1)]

		path.Segments = append(path.Segments, Segment{
			C1:  p1.Plus(p2.Minus(p0).Scale(k)),
			C2:  p2.Minus(p3.Minus(p1).Scale(k)),
			End: p2,
		})
	}
	return path
}

// segmentStart returns the start point of segment i.
func (p Path) segmentStart(i int) geom.Point {
	if i == 0 {
		return p.Start
	}
	return p.Segments[i-1].End
}

// Eval returns the point of segment i at parameter t in [0,1].
func (p Path) Eval(i int, t float64) geom.Point {
	if i < 0 || i >= len(p.Segments) {
		return geom.Point{}
	}
	s := p.Segments[i]
	p0 := p.segmentStart(i)
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return geom.Pt(
		b0*p0.X+b1*s.C1.X+b2*s.C2.X+b3*s.End.X,
		b0*p0.Y+b1*s.C1.Y+b2*s.C2.Y+b3*s.End.Y,
	)
}

// Knot returns the segment and parameter at which input point i lies.
func (p Path) Knot(i int) (segment int, t float64) {
	return i, 1
}

// Sample returns n+1 evenly spaced parameter samples per segment, joined
// into a polyline. Useful for hit-testing and raster output.
func (p Path) Sample(n int) []geom.Point {
	if p.Empty() || n < 1 {
		return nil
	}
	out := []geom.Point{p.Start}
	for i := range p.Segments {
		for j := 1; j <= n; j++ {
			out = append(out, p.Eval(i, float64(j)/float64(n)))
		}
	}
	return out
}

// Bounds returns the bounding box of all start, control and end points.
// It contains the whole curve.
func (p Path) Bounds() geom.Rect {
	if p.Empty() {
		return geom.Rect{}
	}
	r := geom.Rect{MinX: p.Start.X, MinY: p.Start.Y, MaxX: p.Start.X, MaxY: p.Start.Y}
	grow := func(q geom.Point) {
		r.MinX = math.Min(r.MinX, q.X)
		r.MinY = math.Min(r.MinY, q.Y)
		r.MaxX = math.Max(r.MaxX, q.X)
		r.MaxY = math.Max(r.MaxY, q.Y)
	}
	for _, s := range p.Segments {
		grow(s.C1)
		grow(s.C2)
		grow(s.End)
	}
	return r
}

// SVG returns the path as SVG path data ("M x y C ..."). An empty path
// yields an empty string.
func (p Path) SVG() string {
	if p.Empty() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f %.2f", p.Start.X, p.Start.Y)
	for _, s := range p.Segments {
		fmt.Fprintf(&b, " C %.2f %.2f, %.2f %.2f, %.2f %.2f",
			s.C1.X, s.C1.Y, s.C2.X, s.C2.Y, s.End.X, s.End.Y)
	}
	return b.String()
}
