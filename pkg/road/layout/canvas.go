package layout

import "math"

// Canvas sizing defaults, taken from the club site: the road never gets
// wider than 760px and grows 95px per marker beyond a 900px minimum.
const (
	DefaultMaxWidth  = 760.0
	DefaultMinHeight = 900.0
	DefaultRowHeight = 95.0
	DefaultExtra     = 160.0
)

// Canvas describes how the drawing surface is sized from its container.
type Canvas struct {
	MaxWidth  float64 `toml:"max_width" json:"max_width"`
	MinHeight float64 `toml:"min_height" json:"min_height"`
	RowHeight float64 `toml:"row_height" json:"row_height"`
	Extra     float64 `toml:"extra" json:"extra"`
}

// DefaultCanvas returns the sizing used by the site.
func DefaultCanvas() Canvas {
	return Canvas{
		MaxWidth:  DefaultMaxWidth,
		MinHeight: DefaultMinHeight,
		RowHeight: DefaultRowHeight,
		Extra:     DefaultExtra,
	}
}

// Size returns the canvas width and height for a container of the given
// width holding n markers. A zero MaxWidth leaves the width unbounded.
func (c Canvas) Size(containerWidth float64, n int) (w, h float64) {
	w = containerWidth
	if c.MaxWidth > 0 {
		w = math.Min(w, c.MaxWidth)
	}
	if w < 0 || math.IsNaN(w) {
		w = 0
	}
	h = math.Max(c.MinHeight, float64(max(n, 0))*c.RowHeight+c.Extra)
	return w, h
}
