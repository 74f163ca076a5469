package styles

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Simple is the smooth style of the club site.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(buf *bytes.Buffer) {
	RenderRoadDefs(buf)
}

// RenderRoadDefs writes the road fade gradient and the hover glow filter.
func RenderRoadDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `    <linearGradient id="roadFade" x1="0" y1="0" x2="0" y2="1">
      <stop offset="0.88" stop-color="%s" stop-opacity="1"/>
      <stop offset="1" stop-color="%s" stop-opacity="0"/>
    </linearGradient>
    <filter id="glow">
      <feGaussianBlur stdDeviation="3" result="blur"/>
      <feMerge><feMergeNode in="blur"/><feMergeNode in="SourceGraphic"/></feMerge>
    </filter>
`, ColorRoad, ColorRoad)
}

func (Simple) RenderBackground(buf *bytes.Buffer, c Canvas) {
	fmt.Fprintf(buf, `  <rect class="paper" width="%.2f" height="%.2f" fill="%s" rx="4"/>`+"\n", c.W, c.H, ColorPaper)
	RenderGrid(buf, c)
	RenderCompass(buf, c.W-44, 50)
	RenderTitle(buf, c)
}

// RenderGrid writes faint survey lines every GridStep pixels.
func RenderGrid(buf *bytes.Buffer, c Canvas) {
	buf.WriteString(`  <g class="grid" stroke="` + ColorInk + `" stroke-width="0.15" opacity="0.05">` + "\n")
	for i := 0; i < int(math.Floor(c.W/GridStep)); i++ {
		x := float64(i) * GridStep
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f"/>`+"\n", x, x, c.H)
	}
	for i := 0; i < int(math.Floor(c.H/GridStep)); i++ {
		y := float64(i) * GridStep
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", y, c.W, y)
	}
	buf.WriteString("  </g>\n")
}

// RenderCompass writes the compass rose centred at (x, y).
func RenderCompass(buf *bytes.Buffer, x, y float64) {
	fmt.Fprintf(buf, `  <g class="compass" transform="translate(%.2f,%.2f)" opacity="0.25">
    <circle r="20" fill="none" stroke="%[3]s" stroke-width="0.5"/>
    <circle r="16" fill="none" stroke="%[3]s" stroke-width="0.3"/>
    <line x1="0" y1="-14" x2="0" y2="14" stroke="%[3]s" stroke-width="0.4"/>
    <line x1="-14" y1="0" x2="14" y2="0" stroke="%[3]s" stroke-width="0.4"/>
    <polygon points="0,-13 -2.5,-4 2.5,-4" fill="%[4]s" opacity="0.6"/>
    <text y="-22" text-anchor="middle" font-size="6" font-family="%[5]s" fill="%[3]s" opacity="0.35">N</text>
  </g>
`, x, y, ColorInk, ColorDot, Escape(FontDisplay))
}

// RenderTitle writes the header lines centred at the top of the canvas.
func RenderTitle(buf *bytes.Buffer, c Canvas) {
	if c.Title == "" && c.Subtitle == "" {
		return
	}
	fmt.Fprintf(buf, `  <g class="title" transform="translate(%.2f,30)">`+"\n", c.W/2)
	if c.Title != "" {
		fmt.Fprintf(buf, `    <text text-anchor="middle" font-size="9" font-family="%s" fill="%s" letter-spacing="3">%s</text>`+"\n",
			Escape(FontMono), ColorTeal, Escape(strings.ToUpper(c.Title)))
	}
	if c.Subtitle != "" {
		fmt.Fprintf(buf, `    <text text-anchor="middle" y="15" font-size="7" font-family="%s" fill="%s" letter-spacing="2">%s</text>`+"\n",
			Escape(FontMono), ColorInkDim, Escape(strings.ToUpper(c.Subtitle)))
	}
	buf.WriteString("  </g>\n")
}

func (Simple) RenderRoad(buf *bytes.Buffer, r Road) {
	RenderRoadLayers(buf, r.D)
}

// RenderRoadLayers writes the shadow, edge, surface and centre line of the
// road for path data d.
func RenderRoadLayers(buf *bytes.Buffer, d string) {
	if d == "" {
		return
	}
	const join = `fill="none" stroke-linecap="round" stroke-linejoin="round"`
	buf.WriteString(`  <g class="road">` + "\n")
	fmt.Fprintf(buf, `    <path d="%s" %s stroke="rgba(0,0,0,0.2)" stroke-width="24"/>`+"\n", d, join)
	fmt.Fprintf(buf, `    <path d="%s" %s stroke="%s" stroke-width="20"/>`+"\n", d, join, ColorRoadEdge)
	fmt.Fprintf(buf, `    <path d="%s" %s stroke="url(#roadFade)" stroke-width="18"/>`+"\n", d, join)
	fmt.Fprintf(buf, `    <path class="centre-line" d="%s" fill="none" stroke="%s" stroke-width="1.5" stroke-linecap="round" stroke-dasharray="10,8" opacity="0.45"/>`+"\n", d, ColorRoadLine)
	buf.WriteString("  </g>\n")
}

func (Simple) RenderSpoke(buf *bytes.Buffer, s Spoke) {
	fmt.Fprintf(buf, `  <line class="spoke" data-parent="%s" data-member="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.8" stroke-dasharray="3,3" opacity="0.5"/>`+"\n",
		Escape(s.ParentID), Escape(s.ChildID), s.X1, s.Y1, s.X2, s.Y2, ColorInkDim)
}

func (Simple) RenderMarker(buf *bytes.Buffer, m Marker) {
	openLink(buf, m)
	fmt.Fprintf(buf, `  <g class="marker %s" id="marker-%s">`+"\n", Escape(m.Kind), Escape(m.ID))
	RenderLeader(buf, m)
	r, fill := MarkerRadius, ColorDot
	if m.Kind == "member" {
		r = MemberRadius
	}
	if m.Hovered || m.Dragging {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.0f" fill="rgba(212,88,42,0.25)" filter="url(#glow)"/>`+"\n", m.X, m.Y, GlowRadius)
		r, fill = HoverRadius, ColorDotHover
	}
	fmt.Fprintf(buf, `    <circle class="dot" cx="%.2f" cy="%.2f" r="%.0f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n", m.X, m.Y, r, fill, ColorPaper)
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="1.5" fill="%s" opacity="0.7"/>`+"\n", m.X, m.Y, ColorWhite)
	if m.Count > 1 && m.Kind == "group" && !m.Expanded {
		fmt.Fprintf(buf, `    <text class="count" x="%.2f" y="%.2f" text-anchor="middle" font-size="6" font-family="%s" fill="%s">%d</text>`+"\n",
			m.X, m.Y-r-3, Escape(FontMono), ColorInkMuted, m.Count)
	}
	buf.WriteString("  </g>\n")
	closeLink(buf, m)
}

// RenderLeader writes the line from a marker to its labels. Members have
// no leader.
func RenderLeader(buf *bytes.Buffer, m Marker) {
	if m.Kind == "member" {
		return
	}
	if m.Hovered {
		fmt.Fprintf(buf, `    <line class="leader" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" opacity="0.7"/>`+"\n",
			m.X, m.Y, m.LabelX, m.Y, ColorDot)
		return
	}
	fmt.Fprintf(buf, `    <line class="leader" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.4" opacity="0.25" stroke-dasharray="2,2"/>`+"\n",
		m.X, m.Y, m.LabelX, m.Y, ColorInkDim)
}

func (Simple) RenderLabel(buf *bytes.Buffer, m Marker) {
	RenderLabels(buf, m, FontDisplay)
}

func (Simple) RenderPopup(buf *bytes.Buffer, p Popup) {
	RenderPopupCard(buf, p, fmt.Sprintf(`    <rect width="%.2f" height="%.2f" rx="6" fill="%s" stroke="rgba(255,255,255,0.06)"/>`+"\n", p.W, p.H, ColorElevated))
}

func openLink(buf *bytes.Buffer, m Marker) {
	if m.URL != "" {
		fmt.Fprintf(buf, `  <a href="%s">`+"\n", Escape(m.URL))
	}
}

func closeLink(buf *bytes.Buffer, m Marker) {
	if m.URL != "" {
		buf.WriteString("  </a>\n")
	}
}
