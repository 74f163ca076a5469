package handdrawn

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/rvno/roadline/pkg/render/styles"
)

// Jitter amplitudes in pixels.
const (
	roadJitter   = 1.6
	markerJitter = 0.9
	borderJitter = 1.2
)

// HandDrawn is the sketch style. It draws everything Simple draws, with
// jittered strokes.
type HandDrawn struct {
	styles.Simple
	seed uint64
}

// New returns a hand-drawn style with the given seed.
func New(seed uint64) *HandDrawn {
	return &HandDrawn{seed: seed}
}

// Seed returns the jitter seed.
func (h *HandDrawn) Seed() uint64 { return h.seed }

func (h *HandDrawn) Name() string { return "handdrawn" }

func (h *HandDrawn) RenderDefs(buf *bytes.Buffer) {
	styles.RenderRoadDefs(buf)
	fmt.Fprintf(buf, `    <filter id="pencil">
      <feTurbulence type="fractalNoise" baseFrequency="0.03" numOctaves="2" seed="%d" result="noise"/>
      <feDisplacementMap in="SourceGraphic" in2="noise" scale="2.5"/>
    </filter>
`, h.seed%1000)
}

func (h *HandDrawn) RenderRoad(buf *bytes.Buffer, r styles.Road) {
	if len(r.Points) < 4 {
		h.Simple.RenderRoad(buf, r)
		return
	}
	d := jitteredPolyline(r.Points, roadJitter, h.rng("road"))
	buf.WriteString(`  <g class="road" filter="url(#pencil)">` + "\n")
	styles.RenderRoadLayers(buf, d)
	buf.WriteString("  </g>\n")
}

func (h *HandDrawn) RenderMarker(buf *bytes.Buffer, m styles.Marker) {
	if m.URL != "" {
		fmt.Fprintf(buf, `  <a href="%s">`+"\n", styles.Escape(m.URL))
	}
	fmt.Fprintf(buf, `  <g class="marker %s" id="marker-%s">`+"\n", styles.Escape(m.Kind), styles.Escape(m.ID))
	styles.RenderLeader(buf, m)
	r, fill := styles.MarkerRadius, styles.ColorDot
	if m.Kind == "member" {
		r = styles.MemberRadius
	}
	if m.Hovered || m.Dragging {
		r, fill = styles.HoverRadius, styles.ColorDotHover
	}
	fmt.Fprintf(buf, `    <path class="dot" d="%s" fill="%s" stroke="%s" stroke-width="2" filter="url(#pencil)"/>`+"\n",
		wobbledCircle(m.X, m.Y, r, h.rng(m.ID)), fill, styles.ColorPaper)
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="1.5" fill="%s" opacity="0.7"/>`+"\n", m.X, m.Y, styles.ColorWhite)
	buf.WriteString("  </g>\n")
	if m.URL != "" {
		buf.WriteString("  </a>\n")
	}
}

func (h *HandDrawn) RenderLabel(buf *bytes.Buffer, m styles.Marker) {
	styles.RenderLabels(buf, m, "'Patrick Hand', 'Comic Sans MS', cursive")
}

func (h *HandDrawn) RenderPopup(buf *bytes.Buffer, p styles.Popup) {
	border := fmt.Sprintf(`    <path d="%s" fill="%s" stroke="%s" stroke-width="1.2" filter="url(#pencil)"/>`+"\n",
		wobbledRect(0, 0, p.W, p.H, h.rng("popup-"+p.MarkerID)), styles.ColorElevated, styles.ColorInkDim)
	styles.RenderPopupCard(buf, p, border)
}

// rng returns a generator for the element id. The same seed and id always
// produce the same sequence.
func (h *HandDrawn) rng(id string) *rand.Rand {
	f := fnv.New64a()
	f.Write([]byte(id))
	return rand.New(rand.NewPCG(h.seed, f.Sum64()))
}

func jitter(r *rand.Rand, amp float64) float64 {
	return (r.Float64()*2 - 1) * amp
}

// jitteredPolyline turns flat x,y pairs into path data with every inner
// vertex displaced. The ends stay put so the road still meets its markers'
// lead-in and tail.
func jitteredPolyline(pts []float64, amp float64, r *rand.Rand) string {
	var b strings.Builder
	n := len(pts) / 2
	for i := 0; i < n; i++ {
		x, y := pts[2*i], pts[2*i+1]
		if i > 0 && i < n-1 {
			x += jitter(r, amp)
			y += jitter(r, amp)
		}
		if i == 0 {
			fmt.Fprintf(&b, "M %.2f %.2f", x, y)
			continue
		}
		fmt.Fprintf(&b, " L %.2f %.2f", x, y)
	}
	return b.String()
}

// wobbledCircle approximates a circle with quadratic curves through
// slightly perturbed points.
func wobbledCircle(cx, cy, radius float64, r *rand.Rand) string {
	const steps = 8
	amp := math.Min(markerJitter, radius/4)
	pts := make([][2]float64, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / steps
		rr := radius + jitter(r, amp)
		pts[i] = [2]float64{cx + rr*math.Cos(a), cy + rr*math.Sin(a)}
	}
	var b strings.Builder
	mid := func(p, q [2]float64) (float64, float64) { return (p[0] + q[0]) / 2, (p[1] + q[1]) / 2 }
	x, y := mid(pts[steps-1], pts[0])
	fmt.Fprintf(&b, "M %.2f %.2f", x, y)
	for i := range pts {
		mx, my := mid(pts[i], pts[(i+1)%steps])
		fmt.Fprintf(&b, " Q %.2f %.2f %.2f %.2f", pts[i][0], pts[i][1], mx, my)
	}
	b.WriteString(" Z")
	return b.String()
}

// wobbledRect draws a rectangle whose edges bow slightly.
func wobbledRect(x, y, w, h float64, r *rand.Rand) string {
	amp := math.Min(borderJitter, math.Min(w, h)/8)
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f %.2f", corners[0][0]+jitter(r, amp), corners[0][1]+jitter(r, amp))
	for i := 1; i <= len(corners); i++ {
		p, q := corners[i-1], corners[i%len(corners)]
		cx := (p[0]+q[0])/2 + jitter(r, amp)
		cy := (p[1]+q[1])/2 + jitter(r, amp)
		fmt.Fprintf(&b, " Q %.2f %.2f %.2f %.2f", cx, cy, q[0]+jitter(r, amp/2), q[1]+jitter(r, amp/2))
	}
	b.WriteString(" Z")
	return b.String()
}
