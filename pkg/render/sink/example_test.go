package sink_test

import (
	"fmt"
	"strings"

	"github.com/rvno/roadline/pkg/render/sink"
	"github.com/rvno/roadline/pkg/render/styles/handdrawn"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/timeline"
)

func ExampleRenderSVG() {
	rides := []timeline.Entry{
		{ID: "a", Title: "Opener", Date: "2021-03-01"},
		{ID: "b", Title: "Coast", Date: "2022-06-15"},
	}
	svg := sink.RenderSVG(road.New(rides, road.DefaultConfig()).Frame())

	fmt.Println("SVG starts with:", string(svg[:4]))
	fmt.Println("Markers:", strings.Count(string(svg), `class="marker `))
	// Output:
	// SVG starts with: <svg
	// Markers: 2
}

func ExampleRenderSVG_handdrawn() {
	f := road.New(nil, road.DefaultConfig()).Frame()
	svg := sink.RenderSVG(f, sink.WithStyle(handdrawn.New(42)))

	fmt.Println(strings.Contains(string(svg), sink.EmptyText))
	// Output:
	// true
}
