package nodelink

import (
	"strings"
	"testing"

	"github.com/rvno/roadline/pkg/timeline"
)

func groups(t *testing.T) []timeline.Group {
	t.Helper()
	g, skipped := timeline.GroupByYear([]timeline.Entry{
		{ID: "r1", Title: "Opener", Date: "2021-03-01", Location: "Roanoke"},
		{ID: "r2", Title: "Gap run", Date: "2021-07-04"},
		{ID: "r3", Title: "Coast", Date: "2022-06-15"},
	})
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v", skipped)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(groups(t), Options{})

	for _, want := range []string{
		"digraph roadline {",
		`"year:2021" -> "year:2022" [penwidth=3];`,
		`"ride:r1" [label="Opener"];`,
		`"year:2021" -> "ride:r2" [style=dashed, arrowhead=none];`,
		`"year:2022" -> "ride:r3"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\nGot:\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("graph not closed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(groups(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="Opener\nMar 2021\nRoanoke"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Gap run\nJul 2021"`) {
		t.Errorf("label without location wrong:\n%s", dot)
	}
}

func TestToDOTCollapsed(t *testing.T) {
	dot := ToDOT(groups(t), Options{Collapsed: true})
	if strings.Contains(dot, "ride:") {
		t.Error("collapsed chart should not list rides")
	}
	if !strings.Contains(dot, `label="2021\n2 rides"`) || !strings.Contains(dot, `label="2022\n1 ride"`) {
		t.Errorf("year counts missing:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if strings.Contains(dot, "->") {
		t.Error("empty chart should have no edges")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(noBox)) != string(noBox) {
		t.Error("SVG without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(groups(t), Options{Collapsed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("RenderSVG() root not normalized: %.200s", svg)
	}
	if !strings.Contains(string(svg), "2021") {
		t.Error("year label missing from SVG")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG("digraph {"); err == nil {
		t.Error("RenderSVG() should fail on malformed DOT")
	}
}
