package sink

import (
	"encoding/json"

	"github.com/rvno/roadline/pkg/road"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
	seed  uint64
}

// WithJSONStyle records the style name in the output so a client can
// redraw the frame the same way.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONSeed records the hand-drawn jitter seed.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

type jsonOutput struct {
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Style    string        `json:"style,omitempty"`
	Seed     uint64        `json:"seed,omitempty"`
	Grouping string        `json:"grouping"`
	Empty    bool          `json:"empty"`
	Skipped  int           `json:"skipped,omitempty"`
	Expanded string        `json:"expanded,omitempty"`
	Dragging string        `json:"dragging,omitempty"`
	Path     string        `json:"path,omitempty"`
	Markers  []jsonMarker  `json:"markers"`
	Preview  *road.Preview `json:"preview,omitempty"`
}

type jsonMarker struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Label     string   `json:"label"`
	Title     string   `json:"title"`
	Count     int      `json:"count"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	BaseX     float64  `json:"base_x"`
	BaseY     float64  `json:"base_y"`
	DX        float64  `json:"dx"`
	DY        float64  `json:"dy"`
	Draggable bool     `json:"draggable,omitempty"`
	Expanded  bool     `json:"expanded,omitempty"`
	Hovered   bool     `json:"hovered,omitempty"`
	Parent    string   `json:"parent,omitempty"`
	EntryID   string   `json:"entry_id,omitempty"`
	Members   []string `json:"members,omitempty"`
}

// RenderJSON exports the frame as a pretty-printed JSON document: marker
// positions with their base points and offsets, the road as SVG path data
// and the preview card.
//
// It returns an error only if marshaling fails and never modifies f.
func RenderJSON(f road.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    f.Width,
		Height:   f.Height,
		Style:    r.style,
		Seed:     r.seed,
		Grouping: f.Grouping,
		Empty:    f.Empty,
		Skipped:  f.Skipped,
		Expanded: f.Expanded,
		Dragging: f.Dragging,
		Path:     f.PathData,
		Markers:  buildJSONMarkers(f),
		Preview:  f.Preview,
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONMarkers(f road.Frame) []jsonMarker {
	markers := make([]jsonMarker, 0, len(f.Markers))
	for _, m := range f.Markers {
		jm := jsonMarker{
			ID:        m.ID,
			Kind:      string(m.Kind),
			Label:     m.Label,
			Title:     m.Title,
			Count:     m.Count,
			X:         m.Position.X,
			Y:         m.Position.Y,
			BaseX:     m.Base.X,
			BaseY:     m.Base.Y,
			DX:        m.Offset.DX,
			DY:        m.Offset.DY,
			Draggable: m.Draggable,
			Expanded:  m.Expanded,
			Hovered:   m.Hovered,
			Parent:    m.Parent,
		}
		if m.Kind != road.KindGroup && m.Entry != nil {
			jm.EntryID = m.Entry.ID
		}
		if m.Expanded {
			for _, c := range f.Members() {
				jm.Members = append(jm.Members, c.ID)
			}
		}
		markers = append(markers, jm)
	}
	return markers
}
