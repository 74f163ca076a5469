// Package sink writes road frames in their final output formats.
//
// # Overview
//
// A "sink" transforms a computed [road.Frame] into bytes:
//
//   - SVG: the road map, with an optional hover script
//   - JSON: frame data for the web client and external tools
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws, bottom to top: paper and grid, compass and title, the
// four road layers, member spokes, markers with their leader lines, labels,
// the start and end captions, and finally the preview card of the frame.
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithStyle(handdrawn.New(seed)),
//	    sink.WithTitle("Roanoke Valley Norton Owners", "The road so far"),
//	    sink.WithPopups(),
//	)
//
// # SVG Options
//
//   - [WithStyle]: visual style ([styles.Simple] or [handdrawn.New])
//   - [WithTitle]: header lines
//   - [WithLinks]: make markers of single entries clickable
//   - [WithPopups]: embed a hidden card per marker, shown on hover
//
// An empty frame renders the paper with a placeholder line, never an error.
//
// [road.Frame]: github.com/rvno/roadline/pkg/road.Frame
// [styles.Simple]: github.com/rvno/roadline/pkg/render/styles.Simple
// [handdrawn.New]: github.com/rvno/roadline/pkg/render/styles/handdrawn.New
package sink
