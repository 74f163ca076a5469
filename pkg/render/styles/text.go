package styles

import (
	"bytes"
	"fmt"
	"html"
	"strings"
)

// Escape escapes s for use in SVG text and attribute values.
func Escape(s string) string { return html.EscapeString(s) }

// LabelAnchor returns the x position and text-anchor of a marker's labels.
func LabelAnchor(m Marker) (x float64, anchor string) {
	if m.Side == SideLeft {
		return m.LabelX - LabelGap, "end"
	}
	return m.LabelX + LabelGap, "start"
}

// RenderLabels writes the date and title lines the way every style does.
func RenderLabels(buf *bytes.Buffer, m Marker, font string) {
	x, anchor := LabelAnchor(m)
	dateFill, dateOpacity := ColorInkDim, "0.6"
	titleFill, weight := ColorInkMuted, "400"
	if m.Hovered {
		dateFill, dateOpacity = ColorTeal, "1"
		titleFill, weight = ColorInk, "700"
	}
	fmt.Fprintf(buf, `  <g class="marker-label" data-marker="%s">`+"\n", Escape(m.ID))
	if m.Date != "" {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="%s" font-size="8" font-family="%s" font-weight="500" fill="%s" opacity="%s" letter-spacing="0.5">%s</text>`+"\n",
			x, m.Y-5, anchor, Escape(FontMono), dateFill, dateOpacity, Escape(m.Date))
	}
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="%s" font-size="10" font-family="%s" font-weight="%s" fill="%s">%s</text>`+"\n",
		x, m.Y+7, anchor, Escape(font), weight, titleFill, Escape(m.Title))
	buf.WriteString("  </g>\n")
}

// RenderPopupCard writes a preview card. Styles differ only in the frame
// drawn around it, passed as border.
func RenderPopupCard(buf *bytes.Buffer, p Popup, border string) {
	fmt.Fprintf(buf, `  <g class="popup" id="popup-%s" transform="translate(%.2f,%.2f)">`+"\n", Escape(p.MarkerID), p.X, p.Y)
	buf.WriteString(border)
	header := 96.0
	if p.CoverURL != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="0" y="0" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			Escape(p.CoverURL), p.W, header)
	} else {
		fmt.Fprintf(buf, `    <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n", p.W, header, ColorTealDark)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-size="10" font-family="%s" fill="%s" opacity="0.6" letter-spacing="1">%s</text>`+"\n",
			p.W/2, header/2+3, Escape(FontMono), ColorWhite, Escape(strings.ToUpper(p.Badge)))
	}
	if p.Location != "" {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="end" font-size="9" font-family="%s" fill="%s" opacity="0.8">%s</text>`+"\n",
			p.W-8, header-6, Escape(FontMono), ColorWhite, Escape(p.Location))
	}
	y := header + 20
	fmt.Fprintf(buf, `    <text x="12" y="%.2f" font-size="14" font-family="%s" font-weight="600" fill="%s">%s</text>`+"\n",
		y, Escape(FontDisplay), ColorInk, Escape(p.Title))
	if p.Date != "" {
		y += 16
		fmt.Fprintf(buf, `    <text x="12" y="%.2f" font-size="10" font-family="%s" fill="%s">%s</text>`+"\n",
			y, Escape(FontMono), ColorTeal, Escape(p.Date))
	}
	if p.Description != "" {
		y += 16
		fmt.Fprintf(buf, `    <text x="12" y="%.2f" font-size="11" fill="%s">%s</text>`+"\n",
			y, ColorInkMuted, Escape(p.Description))
	}
	buf.WriteString("  </g>\n")
}
