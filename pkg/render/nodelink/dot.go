package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/render"
	"github.com/rvno/roadline/pkg/render/styles"
	"github.com/rvno/roadline/pkg/timeline"
)

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds date and location lines to ride nodes.
	Detailed bool
	// Collapsed draws year nodes only.
	Collapsed bool
}

// ToDOT converts year groups to Graphviz DOT source. Groups are expected in
// chronological order, as returned by timeline.GroupByYear.
func ToDOT(groups []timeline.Group, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph roadline {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", styles.ColorPaper)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=%q, color=%q, fontcolor=%q, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n",
		styles.ColorElevated, styles.ColorInkDim, styles.ColorInk)
	fmt.Fprintf(&buf, "  edge [color=%q];\n", styles.ColorRoadLine)
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, g := range groups {
		label := g.Key
		if opts.Collapsed {
			label = fmt.Sprintf("%s\n%d %s", g.Key, g.Len(), plural(g.Len(), "ride", "rides"))
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, fontcolor=%q, fontsize=18];\n",
			yearID(g.Key), label, styles.ColorDot, styles.ColorWhite)
	}
	for i := 1; i < len(groups); i++ {
		fmt.Fprintf(&buf, "  %q -> %q [penwidth=3];\n", yearID(groups[i-1].Key), yearID(groups[i].Key))
	}

	if !opts.Collapsed {
		buf.WriteString("\n")
		for _, g := range groups {
			for _, e := range g.Members {
				fmt.Fprintf(&buf, "  %q [label=%q];\n", rideID(e.ID), rideLabel(e, opts.Detailed))
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none];\n", yearID(g.Key), rideID(e.ID))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func yearID(key string) string { return "year:" + key }
func rideID(id string) string  { return "ride:" + id }

func rideLabel(e timeline.Entry, detailed bool) string {
	title := timeline.Truncate(e.Title, styles.TitleMaxRunes)
	if !detailed {
		return title
	}
	parts := []string{title, timeline.FormatDate(e)}
	if e.Location != "" {
		parts = append(parts, e.Location)
	}
	return strings.Join(parts, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGContext(context.Background(), dot)
}

// RenderSVGContext is RenderSVG with a caller-supplied context.
func RenderSVGContext(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element (sized in points)
// with one sized in pixels, so the chart scales like the road SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
