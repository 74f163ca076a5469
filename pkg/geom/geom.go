// Package geom holds the small set of 2D primitives shared by the road
// timeline packages: points in canvas space, user offsets, the canvas
// rectangle and the per-canvas offset limits.
//
// All clamp operations are idempotent: clamping an already clamped value
// returns it unchanged.
package geom

import "math"

// Point is a position in canvas space. Y grows downwards, as in SVG.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p displaced by o.
func (p Point) Add(o Offset) Point { return Point{X: p.X + o.DX, Y: p.Y + o.DY} }

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Offset { return Offset{DX: p.X - q.X, DY: p.Y - q.Y} }

// Plus returns the component-wise sum p+q.
func (p Point) Plus(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Minus returns the component-wise difference p-q.
func (p Point) Minus(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool { return finite(p.X) && finite(p.Y) }

// Offset is a persisted user displacement from a base position.
// The zero value is the default "not moved" offset.
type Offset struct {
	DX float64 `json:"dx" bson:"dx"`
	DY float64 `json:"dy" bson:"dy"`
}

// Add returns the sum of two offsets.
func (o Offset) Add(d Offset) Offset { return Offset{DX: o.DX + d.DX, DY: o.DY + d.DY} }

// Len returns the length of the displacement.
func (o Offset) Len() float64 { return math.Hypot(o.DX, o.DY) }

// IsZero reports whether o is the default offset.
func (o Offset) IsZero() bool { return o.DX == 0 && o.DY == 0 }

// Rect is an axis-aligned rectangle, used for canvas bounds.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Canvas returns the rectangle [0,w]x[0,h]. Negative sizes collapse to zero.
func Canvas(w, h float64) Rect {
	return Rect{MaxX: math.Max(w, 0), MaxY: math.Max(h, 0)}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return !(r.Width() > 0 && r.Height() > 0) }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Clamp returns the point of r nearest to p. Non-finite coordinates are
// replaced by the rectangle's lower bound.
func (r Rect) Clamp(p Point) Point {
	return Point{X: clamp(p.X, r.MinX, r.MaxX), Y: clamp(p.Y, r.MinY, r.MaxY)}
}

// Limits bounds an offset: |DX| <= MaxDX and |DY| <= MaxDY.
type Limits struct {
	MaxDX float64 `json:"max_dx"`
	MaxDY float64 `json:"max_dy"`
}

// Clamp returns o restricted to the limits.
func (l Limits) Clamp(o Offset) Offset {
	mx, my := math.Abs(l.MaxDX), math.Abs(l.MaxDY)
	return Offset{DX: clamp(o.DX, -mx, mx), DY: clamp(o.DY, -my, my)}
}

// Allows reports whether o is within the limits.
func (l Limits) Allows(o Offset) bool {
	return math.Abs(o.DX) <= math.Abs(l.MaxDX) && math.Abs(o.DY) <= math.Abs(l.MaxDY)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
