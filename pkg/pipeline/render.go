package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/render/nodelink"
	"github.com/rvno/roadline/pkg/render/sink"
	"github.com/rvno/roadline/pkg/render/styles"
	"github.com/rvno/roadline/pkg/render/styles/handdrawn"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/timeline"
)

// Render generates output artifacts in the requested formats. Road
// artifacts are drawn from the frame; chronology diagrams only need the
// entries.
func Render(f road.Frame, entries []timeline.Entry, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if opts.IsNodelink() {
		return renderNodelink(entries, opts)
	}
	return renderRoad(f, opts)
}

// StyleFor returns the style registered under name.
func StyleFor(name string, seed uint64) (styles.Style, error) {
	switch name {
	case "", StyleSimple:
		return styles.Simple{}, nil
	case StyleHanddrawn:
		return handdrawn.New(seed), nil
	}
	return nil, ValidateStyle(name)
}

// =============================================================================
// Road
// =============================================================================

func renderRoad(f road.Frame, opts Options) (map[string][]byte, error) {
	style, err := StyleFor(opts.Style, opts.Seed)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{
		sink.WithStyle(style),
		sink.WithTitle(opts.Title, opts.Subtitle),
	}
	if opts.Links != "" {
		svgOpts = append(svgOpts, sink.WithLinks(opts.Links))
	}
	if opts.Popups {
		svgOpts = append(svgOpts, sink.WithPopups())
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(f, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(f, sink.WithJSONStyle(style.Name()), sink.WithJSONSeed(opts.Seed))
		case FormatPNG:
			data, err = sink.RenderPNG(f, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(f, sink.WithPDFSVGOptions(svgOpts...))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// =============================================================================
// Nodelink
// =============================================================================

// nodelinkDocument is the JSON artifact of a chronology diagram.
type nodelinkDocument struct {
	Type  string         `json:"type"`
	DOT   string         `json:"dot"`
	Years []nodelinkYear `json:"years"`
}

type nodelinkYear struct {
	Key   string   `json:"key"`
	Rides []string `json:"rides"`
}

func renderNodelink(entries []timeline.Entry, opts Options) (map[string][]byte, error) {
	groups, skipped := timeline.GroupByYear(entries)
	for _, sk := range skipped {
		opts.Logger.Warn("skipping entry", "id", sk.Entry.ID, "date", sk.Entry.Date, "err", sk.Err)
	}
	dot := nodelink.ToDOT(groups, nodelink.Options{Detailed: opts.Detailed, Collapsed: opts.Collapsed})

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case FormatJSON:
			data, err = marshalNodelink(dot, groups)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func marshalNodelink(dot string, groups []timeline.Group) ([]byte, error) {
	doc := nodelinkDocument{Type: TypeNodelink, DOT: dot, Years: make([]nodelinkYear, 0, len(groups))}
	for _, g := range groups {
		y := nodelinkYear{Key: g.Key, Rides: make([]string, 0, g.Len())}
		for _, e := range g.Members {
			y.Rides = append(y.Rides, e.ID)
		}
		doc.Years = append(doc.Years, y)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal nodelink")
	}
	return data, nil
}
