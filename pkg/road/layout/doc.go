// Package layout computes the default positions of timeline markers along a
// hand-drawn-looking road.
//
// # Algorithm
//
// The usable vertical span (canvas height minus padding) is split into n+1
// equal segments and marker i sits at the end of segment i, so markers are
// evenly spaced from top to bottom in input order. Horizontally each marker
// follows a sine wave proportional to the canvas width plus a smaller,
// fixed-shape wobble:
//
//	x = centerX + sin(progress*Frequency + Phase)*amplitude + wobble(progress)
//
// where progress = i/(n+1).
//
// There is no randomness: the same canvas and count always produce the same
// points, which keeps rendering stable and tests reproducible. Consecutive
// markers that would share an x-coordinate are separated by a deterministic
// nudge.
//
// # Usage
//
//	w, h := layout.DefaultCanvas().Size(containerWidth, len(groups))
//	points := layout.BasePositions(w, h, len(groups), layout.DefaultOptions())
package layout
