// Package render turns road frames into files.
//
// # Overview
//
// Rendering is the last stage of the roadline pipeline:
//
//	entries → road.Scene → road.Frame → sink (SVG, JSON, PNG, PDF)
//
// A [road.Frame] already holds every position, so renderers only draw. They
// never mutate the frame and never call back into the scene.
//
// # Subpackages
//
//   - [sink]: SVG and JSON writers, plus PNG and PDF through SVG conversion
//   - [styles]: the Style interface and the smooth "simple" look
//   - [styles/handdrawn]: a sketchy look with seeded, reproducible jitter
//   - [nodelink]: a Graphviz chronology diagram of years and rides
//
// # Format Conversion
//
// [ToPNG] and [ToPDF] shell out to rsvg-convert (librsvg):
//
//	svg := sink.RenderSVG(frame)
//	png, err := render.ToPNG(svg, 2.0)
//
// [road.Frame]: github.com/rvno/roadline/pkg/road.Frame
// [sink]: github.com/rvno/roadline/pkg/render/sink
// [styles]: github.com/rvno/roadline/pkg/render/styles
// [styles/handdrawn]: github.com/rvno/roadline/pkg/render/styles/handdrawn
// [nodelink]: github.com/rvno/roadline/pkg/render/nodelink
package render
