package layout

import (
	"math"

	"github.com/rvno/roadline/pkg/geom"
)

// Default wave parameters. They reproduce the road of the club site.
const (
	DefaultPadding         = 60.0
	DefaultAmplitude       = 0.3
	DefaultFrequency       = math.Pi * 2.8
	DefaultPhase           = 0.5
	DefaultWobbleReference = 400.0
	DefaultMinSeparation   = 2.0
)

// Options controls the shape of the generated road.
type Options struct {
	// Padding is kept free at the top and bottom (and, scaled, on the sides).
	Padding float64 `toml:"padding" json:"padding"`
	// Amplitude of the main wave as a fraction of the usable width.
	Amplitude float64 `toml:"amplitude" json:"amplitude"`
	// Frequency of the main wave in radians over the whole road.
	Frequency float64 `toml:"frequency" json:"frequency"`
	// Phase shifts the main wave.
	Phase float64 `toml:"phase" json:"phase"`
	// WobbleReference is the usable width at which the secondary wobble
	// reaches full strength. Narrower canvases get a proportionally
	// smaller wobble.
	WobbleReference float64 `toml:"wobble_reference" json:"wobble_reference"`
	// MinSeparation is the smallest horizontal gap allowed between two
	// consecutive points.
	MinSeparation float64 `toml:"min_separation" json:"min_separation"`
}

// DefaultOptions returns the road shape used by the site.
func DefaultOptions() Options {
	return Options{
		Padding:         DefaultPadding,
		Amplitude:       DefaultAmplitude,
		Frequency:       DefaultFrequency,
		Phase:           DefaultPhase,
		WobbleReference: DefaultWobbleReference,
		MinSeparation:   DefaultMinSeparation,
	}
}

// withDefaults fills zero fields from DefaultOptions. Phase is left as is
// because zero is a meaningful phase.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Padding <= 0 {
		o.Padding = d.Padding
	}
	if o.Amplitude == 0 {
		o.Amplitude = d.Amplitude
	}
	if o.Frequency == 0 {
		o.Frequency = d.Frequency
	}
	if o.WobbleReference <= 0 {
		o.WobbleReference = d.WobbleReference
	}
	if o.MinSeparation <= 0 {
		o.MinSeparation = d.MinSeparation
	}
	return o
}

// BasePositions returns n points along a winding road on a width x height
// canvas, ordered top to bottom. Input order must be chronological order.
//
// The result is a pure function of its arguments. Degenerate canvases and
// n <= 0 yield an empty slice.
func BasePositions(width, height float64, n int, opts Options) []geom.Point {
	if n <= 0 || !validSize(width) || !validSize(height) {
		return nil
	}
	opts = opts.withDefaults()

	pad := math.Min(opts.Padding, math.Min(width/4, height/4))
	usableW := width - 2*pad
	usableH := height - 2*pad
	segment := usableH / float64(n+1)
	amplitude := usableW * opts.Amplitude
	wobbleScale := math.Min(1, usableW/opts.WobbleReference)
	centerX := width / 2
	canvas := geom.Canvas(width, height)

	points := make([]geom.Point, n)
	for i := 1; i <= n; i++ {
		progress := float64(i) / float64(n+1)
		wave := math.Sin(progress*opts.Frequency+opts.Phase) * amplitude
		x := centerX + wave + wobble(progress)*wobbleScale
		y := pad + float64(i)*segment
		points[i-1] = canvas.Clamp(geom.Pt(x, y))
	}

	separate(points, opts.MinSeparation, canvas)
	return points
}

// wobble is the small secondary meander layered on the main wave.
func wobble(progress float64) float64 {
	return math.Sin(progress*7.3)*18 + math.Cos(progress*11.1)*12
}

// separate pushes apart consecutive points whose x-coordinates nearly
// coincide. The later point moves away from its predecessor; on an exact tie
// the direction alternates with the index. If the canvas edge blocks that
// direction the point moves the other way.
func separate(points []geom.Point, minSep float64, canvas geom.Rect) {
	if canvas.Width() < 2*minSep {
		return
	}
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].X, points[i].X
		if math.Abs(cur-prev) >= minSep {
			continue
		}
		dir := 1.0
		switch {
		case cur < prev:
			dir = -1
		case cur == prev && i%2 == 1:
			dir = -1
		}
		x := prev + dir*minSep
		if x < canvas.MinX || x > canvas.MaxX {
			x = prev - dir*minSep
		}
		points[i].X = x
	}
}

func validSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
