package road

import (
	"fmt"

	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/road/cluster"
	"github.com/rvno/roadline/pkg/road/curve"
	"github.com/rvno/roadline/pkg/road/drag"
	"github.com/rvno/roadline/pkg/road/layout"
)

// Grouping selects what one base marker stands for.
type Grouping int

const (
	// GroupingYear draws one marker per calendar year.
	GroupingYear Grouping = iota
	// GroupingNone draws one marker per entry.
	GroupingNone
)

func (g Grouping) String() string {
	if g == GroupingNone {
		return "none"
	}
	return "year"
}

// ParseGrouping parses "year" or "none".
func ParseGrouping(s string) (Grouping, error) {
	switch s {
	case "", "year":
		return GroupingYear, nil
	case "none", "entry":
		return GroupingNone, nil
	}
	return GroupingYear, fmt.Errorf("unknown grouping %q (want year or none)", s)
}

// Config holds every tunable of a scene.
type Config struct {
	// ContainerWidth is the width available to the canvas.
	ContainerWidth float64
	Grouping       Grouping
	Canvas         layout.Canvas
	Layout         layout.Options
	Curve          curve.Options
	Policy         offsets.Policy
	Cluster        cluster.Options
	ClickThreshold float64
}

// DefaultConfig returns the settings of the club site at full width.
func DefaultConfig() Config {
	return Config{
		ContainerWidth: layout.DefaultMaxWidth,
		Grouping:       GroupingYear,
		Canvas:         layout.DefaultCanvas(),
		Layout:         layout.DefaultOptions(),
		Curve:          curve.DefaultOptions(),
		Policy:         offsets.DefaultPolicy(),
		Cluster:        cluster.DefaultOptions(),
		ClickThreshold: drag.DefaultClickThreshold,
	}
}
