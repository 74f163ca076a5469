package cluster

import (
	"math"
	"testing"

	"github.com/rvno/roadline/pkg/geom"
)

func TestToggleSingleExpansion(t *testing.T) {
	var c Controller
	keys := []string{"2021", "2022", "2023"}

	if got := c.Toggle("2022"); got != "2022" {
		t.Fatalf("Toggle(2022) = %q", got)
	}
	if !c.IsExpanded("2022") || c.IsExpanded("2021") || c.IsExpanded("2023") {
		t.Error("only 2022 should be expanded")
	}

	c.Toggle("2021")
	if !c.IsExpanded("2021") || c.IsExpanded("2022") {
		t.Error("activating 2021 should collapse 2022")
	}

	if got := c.Toggle("2021"); got != "" {
		t.Errorf("second toggle should collapse, got %q", got)
	}

	// any sequence keeps at most one expanded group
	seq := []string{"2021", "2021", "2023", "2022", "2022", "2022", "2021", ""}
	for _, k := range seq {
		c.Toggle(k)
		n := 0
		for _, key := range keys {
			if c.IsExpanded(key) {
				n++
			}
		}
		if n > 1 {
			t.Fatalf("after Toggle(%q): %d groups expanded", k, n)
		}
	}
}

func TestToggleEmptyKey(t *testing.T) {
	var c Controller
	c.Toggle("2022")
	if got := c.Toggle(""); got != "2022" {
		t.Errorf("empty key should not change state, got %q", got)
	}
	if c.IsExpanded("") {
		t.Error("empty key is never expanded")
	}
	c.Collapse()
	if c.Expanded() != "" {
		t.Error("Collapse should clear expansion")
	}
}

func TestArrangeOpensAwayFromEdge(t *testing.T) {
	canvas := geom.Canvas(760, 900)
	opts := DefaultOptions()

	left := geom.Pt(200, 450)
	for i, p := range Arrange(left, 4, canvas, opts) {
		if p.X < left.X {
			t.Errorf("left-half member %d at %v grows towards the left edge", i, p)
		}
	}

	right := geom.Pt(560, 450)
	for i, p := range Arrange(right, 4, canvas, opts) {
		if p.X > right.X {
			t.Errorf("right-half member %d at %v grows towards the right edge", i, p)
		}
	}
}

func TestArrangeAlternatesRadii(t *testing.T) {
	center := geom.Pt(200, 450)
	pts := Arrange(center, 5, geom.Canvas(760, 900), DefaultOptions())
	for i, p := range pts {
		want := DefaultInnerRadius
		if i%2 == 1 {
			want = DefaultOuterRadius
		}
		if d := p.Dist(center); math.Abs(d-want) > 1e-9 {
			t.Errorf("member %d at distance %v, want %v", i, d, want)
		}
	}
}

func TestArrangeSingleMemberOnAxis(t *testing.T) {
	pts := Arrange(geom.Pt(200, 450), 1, geom.Canvas(760, 900), DefaultOptions())
	if len(pts) != 1 {
		t.Fatalf("got %d points", len(pts))
	}
	if math.Abs(pts[0].X-270) > 1e-9 || math.Abs(pts[0].Y-450) > 1e-9 {
		t.Errorf("single member at %v, want (270,450)", pts[0])
	}
}

func TestArrangeSpansArcSymmetrically(t *testing.T) {
	center := geom.Pt(200, 450)
	pts := Arrange(center, 3, geom.Canvas(760, 900), Options{SpanDegrees: 90, InnerRadius: 100, OuterRadius: 100})
	// -45°, 0°, +45°
	want := []geom.Point{
		geom.Pt(200+100*math.Cos(-math.Pi/4), 450+100*math.Sin(-math.Pi/4)),
		geom.Pt(300, 450),
		geom.Pt(200+100*math.Cos(math.Pi/4), 450+100*math.Sin(math.Pi/4)),
	}
	for i := range want {
		if pts[i].Dist(want[i]) > 1e-9 {
			t.Errorf("member %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestArrangeClampsToCanvas(t *testing.T) {
	canvas := geom.Canvas(200, 120)
	for _, p := range Arrange(geom.Pt(20, 10), 8, canvas, DefaultOptions()) {
		if !canvas.Contains(p) {
			t.Errorf("member %v escapes canvas", p)
		}
	}
}

func TestArrangeEmpty(t *testing.T) {
	if got := Arrange(geom.Pt(0, 0), 0, geom.Canvas(760, 900), DefaultOptions()); got != nil {
		t.Errorf("Arrange(n=0) = %v", got)
	}
}
