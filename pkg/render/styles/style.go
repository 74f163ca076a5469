package styles

import "bytes"

// Style defines the visual appearance of a road.
// Implementations decide how the road, markers, labels and popups are drawn;
// positions always come from the frame.
type Style interface {
	// Name identifies the style in config files and JSON output.
	Name() string
	// RenderDefs writes SVG <defs> content (gradients, filters).
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground writes the paper, grid and compass.
	RenderBackground(buf *bytes.Buffer, c Canvas)
	// RenderRoad writes the layered road along its path.
	RenderRoad(buf *bytes.Buffer, r Road)
	// RenderSpoke writes the connector from an expanded year to a member.
	RenderSpoke(buf *bytes.Buffer, s Spoke)
	// RenderMarker writes a marker dot with its leader line.
	RenderMarker(buf *bytes.Buffer, m Marker)
	// RenderLabel writes the date and title text of a marker.
	RenderLabel(buf *bytes.Buffer, m Marker)
	// RenderPopup writes a hover preview card.
	RenderPopup(buf *bytes.Buffer, p Popup)
}

// Canvas is the drawing surface.
type Canvas struct {
	W, H     float64
	Title    string // Header line, upper-cased by the style
	Subtitle string
}

// Road is the path the markers sit on.
type Road struct {
	D      string    // SVG path data
	Points []float64 // Sampled polyline as x0,y0,x1,y1,...
}

// Side is where a marker's label sits.
type Side string

const (
	SideRight Side = "right"
	SideLeft  Side = "left"
)

// Marker contains all data needed to draw one marker.
type Marker struct {
	ID       string  // Marker identifier (year key or entry ID)
	Kind     string  // "group", "entry" or "member"
	X, Y     float64 // Centre
	LabelX   float64 // End of the leader line
	Side     Side
	Date     string // Formatted date line
	Title    string // Title, already truncated
	Count    int    // Entries behind the marker
	URL      string // Optional link target
	Hovered  bool
	Expanded bool
	Dragging bool
}

// Spoke links an expanded year marker to one of its members.
type Spoke struct {
	ParentID, ChildID string
	X1, Y1, X2, Y2    float64
}

// Popup holds the content and box of a preview card.
type Popup struct {
	MarkerID    string
	X, Y, W, H  float64
	Title       string
	Date        string
	Location    string
	Description string
	Badge       string // "N photos" or "Album"
	CoverURL    string
}
