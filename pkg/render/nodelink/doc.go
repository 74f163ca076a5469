// Package nodelink renders the ride chronology as a node-link diagram.
//
// # Overview
//
// Where the road shows rides along a winding path, the node-link view is
// a plain Graphviz chart: one box per year, chained in order, with the
// rides of each year hanging off it. It is useful for checking the data
// behind a road at a glance.
//
// # Usage
//
//	groups, _ := timeline.GroupByYear(entries)
//	dot := nodelink.ToDOT(groups, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)
//
// # Options
//
//   - Detailed: ride nodes show their date and location next to the title
//   - Collapsed: year nodes only, labelled with their ride count
//
// Rendering uses github.com/goccy/go-graphviz, a WebAssembly build of
// Graphviz, so no system install is needed for SVG. PDF and PNG go through
// rsvg-convert like every other roadline output.
package nodelink
