package road

import (
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/observability"
	"github.com/rvno/roadline/pkg/road/cluster"
	"github.com/rvno/roadline/pkg/road/curve"
	"github.com/rvno/roadline/pkg/road/drag"
	"github.com/rvno/roadline/pkg/road/layout"
	"github.com/rvno/roadline/pkg/road/preview"
	"github.com/rvno/roadline/pkg/timeline"
)

// Scene is an interactive road timeline. It is not safe for concurrent use;
// drive it from one goroutine (a UI loop, a TUI model, or under a lock).
type Scene struct {
	cfg     Config
	entries []timeline.Entry
	offsets map[string]geom.Offset

	drag    *drag.Controller
	cluster cluster.Controller
	preview preview.Controller

	persister Persister
	navigator Navigator
	auth      Authorizer
	logger    *log.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithPersister sets where completed drags are written.
func WithPersister(p Persister) Option {
	return func(s *Scene) {
		if p != nil {
			s.persister = p
		}
	}
}

// WithNavigator sets who opens entries on click.
func WithNavigator(n Navigator) Option {
	return func(s *Scene) {
		if n != nil {
			s.navigator = n
		}
	}
}

// WithAuthorizer sets the edit privilege check. Without one the scene is
// read-only.
func WithAuthorizer(a Authorizer) Option {
	return func(s *Scene) {
		if a != nil {
			s.auth = a
		}
	}
}

// WithOffsets seeds the in-memory offsets, typically from an offset store.
func WithOffsets(o map[string]geom.Offset) Option {
	return func(s *Scene) { maps.Copy(s.offsets, o) }
}

// WithLogger sets the logger for skipped entries and interaction traces.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a scene over entries.
func New(entries []timeline.Entry, cfg Config, opts ...Option) *Scene {
	s := &Scene{
		cfg:       cfg,
		offsets:   map[string]geom.Offset{},
		persister: nopPersister{},
		navigator: nopNavigator{},
		auth:      drag.Static(false),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.drag = drag.New(s.auth, drag.WithClickThreshold(cfg.ClickThreshold))
	s.SetEntries(entries)
	return s
}

// SetEntries replaces the entries. Entries with unparseable dates are
// logged and left out of every frame.
func (s *Scene) SetEntries(entries []timeline.Entry) {
	s.entries = slices.Clone(entries)
	_, skipped := timeline.Sort(s.entries)
	for _, sk := range skipped {
		s.logger.Warn("skipping entry", "id", sk.Entry.ID, "date", sk.Entry.Date, "err", sk.Err)
	}
}

// Entries returns the current entries.
func (s *Scene) Entries() []timeline.Entry { return slices.Clone(s.entries) }

// SetCanvasWidth changes the container width; the next frame relayouts.
func (s *Scene) SetCanvasWidth(w float64) { s.cfg.ContainerWidth = w }

// Config returns the scene configuration.
func (s *Scene) Config() Config { return s.cfg }

// Offsets returns a copy of the in-memory offsets.
func (s *Scene) Offsets() map[string]geom.Offset { return maps.Clone(s.offsets) }

// Offset returns the stored offset of key.
func (s *Scene) Offset(key string) geom.Offset { return s.offsets[key] }

// SetOffset replaces the in-memory offset of key without persisting it.
func (s *Scene) SetOffset(key string, o geom.Offset) { s.offsets[key] = o }

// ResetOffset forgets the in-memory offset of key.
func (s *Scene) ResetOffset(key string) { delete(s.offsets, key) }

// Expanded returns the key of the expanded group, or "".
func (s *Scene) Expanded() string { return s.cluster.Expanded() }

// IsExpanded reports whether key is the expanded group.
func (s *Scene) IsExpanded(key string) bool { return s.cluster.IsExpanded(key) }

// Toggle activates a group directly, as a click on it would.
func (s *Scene) Toggle(key string) string {
	exp := s.cluster.Toggle(key)
	observability.Interaction().OnToggle(exp)
	return exp
}

// CanEdit reports the current edit privilege.
func (s *Scene) CanEdit() bool { return s.auth.CanEdit() }

// Dragging reports whether a drag is in progress.
func (s *Scene) Dragging() bool { return s.drag.Dragging() }

// item is one base marker before positioning.
type item struct {
	key     string
	kind    Kind
	label   string
	title   string
	date    string
	members []timeline.Entry
}

func (s *Scene) items() ([]item, int) {
	if s.cfg.Grouping == GroupingNone {
		sorted, skipped := timeline.Sort(s.entries)
		out := make([]item, len(sorted))
		for i, e := range sorted {
			out[i] = item{
				key:     e.ID,
				kind:    KindEntry,
				label:   timeline.FormatDate(e),
				title:   e.Title,
				date:    e.Date,
				members: []timeline.Entry{e},
			}
		}
		return out, len(skipped)
	}
	groups, skipped := timeline.GroupByYear(s.entries)
	out := make([]item, len(groups))
	for i, g := range groups {
		out[i] = item{
			key:     g.Key,
			kind:    KindGroup,
			label:   g.Key,
			title:   groupTitle(g),
			date:    g.Members[0].Date,
			members: g.Members,
		}
	}
	return out, len(skipped)
}

// Frame derives the current picture.
func (s *Scene) Frame() Frame {
	start := time.Now()
	f := s.frame()
	observability.Frame().OnFrame(len(f.Markers), f.Dragging != "", time.Since(start))
	return f
}

func (s *Scene) frame() Frame {
	items, skipped := s.items()
	w, h := s.cfg.Canvas.Size(s.cfg.ContainerWidth, len(items))
	f := Frame{
		Width:    w,
		Height:   h,
		Grouping: s.cfg.Grouping.String(),
		Empty:    len(items) == 0,
		Skipped:  skipped,
	}

	session, dragging := s.drag.Session()
	if dragging && session.Draggable {
		f.Dragging = session.Target
	}

	bases := layout.BasePositions(w, h, len(items), s.cfg.Layout)
	if len(bases) != len(items) {
		return f
	}

	positions := make([]geom.Point, len(items))
	expanded := -1
	for i, it := range items {
		off := s.offsets[it.key]
		if f.Dragging == it.key {
			off = session.Current
		}
		off = s.cfg.Policy.Clamp(off, w, h)
		positions[i] = s.cfg.Policy.Effective(bases[i], off, w, h)

		first := it.members[0]
		m := Marker{
			ID:        it.key,
			Kind:      it.kind,
			Label:     it.label,
			Title:     it.title,
			Date:      it.date,
			Count:     len(it.members),
			Base:      bases[i],
			Offset:    off,
			Position:  positions[i],
			Draggable: true,
			Entry:     &first,
		}
		if it.kind == KindGroup && s.cluster.IsExpanded(it.key) {
			m.Expanded = true
		}
		if m.Expanded {
			expanded = len(f.Markers)
		}
		f.Markers = append(f.Markers, m)
	}
	f.Path = curve.Fit(positions, s.cfg.Curve)
	f.PathData = f.Path.SVG()

	if expanded >= 0 {
		parent := f.Markers[expanded]
		f.Expanded = parent.ID
		members := s.membersOf(items, parent.ID)
		pts := cluster.Arrange(parent.Position, len(members), geom.Canvas(w, h), s.cfg.Cluster)
		for i, e := range members {
			f.Markers = append(f.Markers, Marker{
				ID:       memberID(items, parent.ID, e.ID),
				Kind:     KindMember,
				Label:    timeline.FormatDate(e),
				Title:    e.Title,
				Date:     e.Date,
				Count:    1,
				Base:     pts[i],
				Position: pts[i],
				Parent:   parent.ID,
				Entry:    &e,
			})
		}
	}

	s.attachPreview(&f)
	return f
}

// memberID is the marker ID of a member: its entry ID, qualified by the
// year when a base marker already uses that ID.
func memberID(items []item, parent, entryID string) string {
	for _, it := range items {
		if it.key == entryID {
			return parent + "/" + entryID
		}
	}
	return entryID
}

func (s *Scene) size() (float64, float64) {
	items, _ := s.items()
	return s.cfg.Canvas.Size(s.cfg.ContainerWidth, len(items))
}

func (s *Scene) membersOf(items []item, key string) []timeline.Entry {
	for _, it := range items {
		if it.key == key {
			return it.members
		}
	}
	return nil
}

func (s *Scene) attachPreview(f *Frame) {
	st := s.preview.Current()
	if !st.Active() {
		return
	}
	m, ok := f.Marker(st.ID)
	if !ok || m.Entry == nil {
		return
	}
	for i := range f.Markers {
		if f.Markers[i].ID == m.ID && f.Markers[i].Kind == m.Kind {
			f.Markers[i].Hovered = true
		}
	}
	side := preview.SideFor(m.Position, f.Width)
	f.Preview = &Preview{
		MarkerID: m.ID,
		Entry:    *m.Entry,
		Anchor:   m.Position,
		Side:     side,
		Box:      preview.Popup(m.Position, side, f.Width, f.Height),
	}
}
