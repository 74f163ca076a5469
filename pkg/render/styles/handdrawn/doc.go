// Package handdrawn provides a sketchy, pencil-on-map style for the road.
//
// The road is redrawn from its sampled polyline with every vertex nudged a
// little, markers become wobbly circles and a turbulence filter roughens
// the strokes. The smooth geometry of the frame is never changed; only the
// ink moves.
//
// # Reproducible Randomness
//
// All jitter comes from a seed combined with the ID of what is drawn:
//
//	style := handdrawn.New(42) // same seed, same wobble
//
// Rendering the same frame twice with the same seed gives identical bytes,
// which keeps cached artifacts stable.
package handdrawn
