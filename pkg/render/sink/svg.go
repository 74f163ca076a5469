package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/render/styles"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/road/preview"
	"github.com/rvno/roadline/pkg/timeline"
)

// Captions drawn on every road.
const (
	EmptyText  = "No rides yet. The road is waiting."
	StartText  = "WHERE IT BEGAN"
	EndText    = "MORE ROAD AHEAD →"
	BottomPad  = 40.0
	sampleSegs = 12
)

const popupCSS = `
    .popups .popup { display: none; pointer-events: none; }
    .popups .popup.show { display: inline; }
    .marker { cursor: pointer; }`

const popupJS = `
    document.querySelectorAll('.marker').forEach(el => {
      const card = document.getElementById('popup-' + el.id.replace('marker-', ''));
      if (!card) return;
      el.addEventListener('mouseenter', () => card.classList.add('show'));
      el.addEventListener('mouseleave', () => card.classList.remove('show'));
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    styles.Style
	title    string
	subtitle string
	link     func(entryID string) string
	popups   bool
}

// WithStyle sets the visual style. The default is [styles.Simple].
func WithStyle(s styles.Style) SVGOption {
	return func(r *svgRenderer) {
		if s != nil {
			r.style = s
		}
	}
}

// WithTitle sets the header lines.
func WithTitle(title, subtitle string) SVGOption {
	return func(r *svgRenderer) { r.title, r.subtitle = title, subtitle }
}

// WithLinks wraps entry and member markers in links. pattern is a
// Printf format receiving the entry ID, such as "/album/%s".
func WithLinks(pattern string) SVGOption {
	return func(r *svgRenderer) {
		if pattern == "" {
			r.link = nil
			return
		}
		r.link = func(id string) string { return fmt.Sprintf(pattern, id) }
	}
}

// WithPopups embeds a hidden preview card for every marker and a script
// showing it on hover.
func WithPopups() SVGOption { return func(r *svgRenderer) { r.popups = true } }

// RenderSVG draws f as a standalone SVG document.
func RenderSVG(f road.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := f.Width, f.Height+BottomPad
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-style="%s">`+"\n",
		w, h, w, h, styles.Escape(r.style.Name()))
	buf.WriteString("  <defs>\n")
	r.style.RenderDefs(&buf)
	buf.WriteString("  </defs>\n")
	r.style.RenderBackground(&buf, styles.Canvas{W: w, H: h, Title: r.title, Subtitle: r.subtitle})

	if f.Empty || len(f.Markers) == 0 {
		fmt.Fprintf(&buf, `  <text class="empty" x="%.2f" y="%.2f" text-anchor="middle" font-size="12" font-family="%s" fill="%s">%s</text>`+"\n",
			w/2, h/2, styles.Escape(styles.FontMono), styles.ColorInkDim, styles.Escape(EmptyText))
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	r.style.RenderRoad(&buf, styles.Road{D: f.PathData, Points: flatten(f.Path.Sample(sampleSegs))})

	markers := r.buildMarkers(f)
	for _, s := range buildSpokes(f) {
		r.style.RenderSpoke(&buf, s)
	}
	for _, m := range markers {
		r.style.RenderMarker(&buf, m)
	}
	for _, m := range markers {
		r.style.RenderLabel(&buf, m)
	}
	renderCaptions(&buf, f)

	if f.Preview != nil {
		r.style.RenderPopup(&buf, buildPopup(f.Preview.MarkerID, f.Preview.Entry, f.Preview.Box))
	}
	if r.popups {
		r.renderPopups(&buf, f)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) buildMarkers(f road.Frame) []styles.Marker {
	out := make([]styles.Marker, 0, len(f.Markers))
	for _, m := range f.Markers {
		side := styles.SideRight
		switch {
		case m.Kind == road.KindMember:
			if parent, ok := f.Marker(m.Parent); ok && m.Position.X < parent.Position.X {
				side = styles.SideLeft
			}
		case preview.SideFor(m.Position, f.Width) == preview.Left:
			side = styles.SideLeft
		}
		labelX := m.Position.X + styles.LeaderLength
		if side == styles.SideLeft {
			labelX = m.Position.X - styles.LeaderLength
		}
		if m.Kind == road.KindMember {
			labelX = m.Position.X + (labelX-m.Position.X)/3
		}

		sm := styles.Marker{
			ID:       m.ID,
			Kind:     string(m.Kind),
			X:        m.Position.X,
			Y:        m.Position.Y,
			LabelX:   labelX,
			Side:     side,
			Date:     m.Label,
			Title:    timeline.Truncate(m.Title, styles.TitleMaxRunes),
			Count:    m.Count,
			Hovered:  m.Hovered,
			Expanded: m.Expanded,
			Dragging: f.Dragging == m.ID,
		}
		if r.link != nil && m.Kind != road.KindGroup && m.Entry != nil {
			sm.URL = r.link(m.Entry.ID)
		}
		out = append(out, sm)
	}
	return out
}

func buildSpokes(f road.Frame) []styles.Spoke {
	if f.Expanded == "" {
		return nil
	}
	parent, ok := f.Marker(f.Expanded)
	if !ok {
		return nil
	}
	var spokes []styles.Spoke
	for _, m := range f.Members() {
		spokes = append(spokes, styles.Spoke{
			ParentID: parent.ID, ChildID: m.ID,
			X1: parent.Position.X, Y1: parent.Position.Y,
			X2: m.Position.X, Y2: m.Position.Y,
		})
	}
	return spokes
}

func renderCaptions(buf *bytes.Buffer, f road.Frame) {
	bases := f.Bases()
	if len(bases) == 0 {
		return
	}
	first, last := bases[0].Position, bases[len(bases)-1].Position
	font := styles.Escape(styles.FontMono)
	fmt.Fprintf(buf, `  <g class="start" transform="translate(%.2f,%.2f)"><text font-size="6" font-family="%s" fill="%s" letter-spacing="2" opacity="0.4" transform="rotate(-10)">%s</text></g>`+"\n",
		first.X-40, first.Y-38, font, styles.ColorInkDim, StartText)
	fmt.Fprintf(buf, `  <text class="end" x="%.2f" y="%.2f" font-size="6" font-family="%s" fill="%s" letter-spacing="2" opacity="0.25">%s</text>`+"\n",
		last.X+30, f.Height+5, font, styles.ColorInkDim, EndText)
}

func (r *svgRenderer) renderPopups(buf *bytes.Buffer, f road.Frame) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", popupCSS)
	buf.WriteString(`  <g class="popups">` + "\n")
	for _, m := range f.Markers {
		if m.Entry == nil {
			continue
		}
		side := preview.SideFor(m.Position, f.Width)
		box := preview.Popup(m.Position, side, f.Width, f.Height)
		r.style.RenderPopup(buf, buildPopup(m.ID, *m.Entry, box))
	}
	buf.WriteString("  </g>\n")
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", popupJS)
}

func buildPopup(id string, e timeline.Entry, box geom.Rect) styles.Popup {
	return styles.Popup{
		MarkerID:    id,
		X:           box.MinX,
		Y:           box.MinY,
		W:           box.Width(),
		H:           box.Height(),
		Title:       e.Title,
		Date:        timeline.FormatDate(e),
		Location:    e.Location,
		Description: timeline.Truncate(strings.TrimSpace(e.Description), 120),
		Badge:       Badge(e),
		CoverURL:    e.CoverURL,
	}
}

// Badge is the photo caption of a preview: "N photos", or "Album" when the
// count is unknown.
func Badge(e timeline.Entry) string {
	switch {
	case e.PhotoCount == 1:
		return "1 photo"
	case e.PhotoCount > 1:
		return fmt.Sprintf("%d photos", e.PhotoCount)
	}
	return "Album"
}

func flatten(pts []geom.Point) []float64 {
	out := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, p.X, p.Y)
	}
	return out
}
