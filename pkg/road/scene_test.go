package road

import (
	"bytes"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/road/drag"
	"github.com/rvno/roadline/pkg/timeline"
)

func fiveRides() []timeline.Entry {
	return []timeline.Entry{
		{ID: "r1", Title: "Blue Ridge opener", Date: "2021-03-01"},
		{ID: "r2", Title: "Fourth of July run", Date: "2021-07-04"},
		{ID: "r3", Title: "Frozen fingers", Date: "2022-01-10"},
		{ID: "r4", Title: "Dragon's tail", Date: "2022-06-15"},
		{ID: "r5", Title: "Smith Mountain Lake", Date: "2023-02-20"},
	}
}

type recorder struct {
	persisted map[string]geom.Offset
	calls     int
	navigated []string
}

func newRecorder() *recorder { return &recorder{persisted: map[string]geom.Offset{}} }

func (r *recorder) Persist(key string, o geom.Offset) {
	r.calls++
	r.persisted[key] = o
}

func (r *recorder) NavigateToEntry(id string) { r.navigated = append(r.navigated, id) }

func newScene(t *testing.T, editor bool, rec *recorder, opts ...Option) *Scene {
	t.Helper()
	opts = append([]Option{
		WithPersister(rec),
		WithNavigator(rec),
		WithAuthorizer(drag.Static(editor)),
	}, opts...)
	return New(fiveRides(), DefaultConfig(), opts...)
}

func position(t *testing.T, s *Scene, id string) geom.Point {
	t.Helper()
	m, ok := s.Frame().Marker(id)
	if !ok {
		t.Fatalf("marker %q not in frame", id)
	}
	return m.Position
}

func TestFrameGroupsByYear(t *testing.T) {
	f := newScene(t, false, newRecorder()).Frame()

	if f.Width != 760 || f.Height != 900 {
		t.Errorf("canvas = %vx%v, want 760x900", f.Width, f.Height)
	}
	bases := f.Bases()
	if len(bases) != 3 {
		t.Fatalf("got %d base markers, want 3", len(bases))
	}
	wantKeys := []string{"2021", "2022", "2023"}
	wantCounts := []int{2, 2, 1}
	for i, m := range bases {
		if m.ID != wantKeys[i] || m.Count != wantCounts[i] || m.Kind != KindGroup {
			t.Errorf("marker %d = %s (%d, %s), want %s (%d)", i, m.ID, m.Count, m.Kind, wantKeys[i], wantCounts[i])
		}
		if i > 0 && !(m.Position.Y > bases[i-1].Position.Y) {
			t.Errorf("marker %s not below %s", m.ID, bases[i-1].ID)
		}
	}
	if f.Empty || f.Expanded != "" || f.Preview != nil {
		t.Errorf("unexpected frame state: %+v", f)
	}
}

func TestFramePathPassesThroughMarkers(t *testing.T) {
	s := newScene(t, false, newRecorder(), WithOffsets(map[string]geom.Offset{"2022": {DX: 40, DY: 12}}))
	f := s.Frame()
	for i, m := range f.Bases() {
		got := f.Path.Eval(f.Path.Knot(i))
		if got.Dist(m.Position) > 1e-9 {
			t.Errorf("path misses marker %s: %v vs %v", m.ID, got, m.Position)
		}
	}
	if f.PathData == "" {
		t.Error("PathData should be filled")
	}
}

func TestDragPersistsOnRelease(t *testing.T) {
	rec := newRecorder()
	s := newScene(t, true, rec)
	p := position(t, s, "2022")
	before2021, before2023 := position(t, s, "2021"), position(t, s, "2023")

	if !s.PointerDown("2022", p) {
		t.Fatal("editor press on a year marker should start a drag")
	}
	s.PointerMove(p.Add(geom.Offset{DX: 5, DY: -3}))
	if rec.calls != 0 {
		t.Fatal("moves must not persist")
	}
	if f := s.Frame(); f.Dragging != "2022" {
		t.Errorf("Dragging = %q", f.Dragging)
	}
	s.PointerMove(p.Add(geom.Offset{DX: 15, DY: -10}))
	out := s.PointerUp(p.Add(geom.Offset{DX: 15, DY: -10}))

	if out.Gesture != drag.Drag || !out.Persisted {
		t.Fatalf("PointerUp = %+v", out)
	}
	if rec.calls != 1 || rec.persisted["2022"] != (geom.Offset{DX: 15, DY: -10}) {
		t.Errorf("persisted %v in %d calls, want 2022=(15,-10) once", rec.persisted, rec.calls)
	}
	if _, ok := rec.persisted["2021"]; ok {
		t.Error("2021 must not be written")
	}
	if got := position(t, s, "2022"); got.Dist(p.Add(geom.Offset{DX: 15, DY: -10})) > 1e-9 {
		t.Errorf("2022 drawn at %v after drag", got)
	}
	if position(t, s, "2021") != before2021 || position(t, s, "2023") != before2023 {
		t.Error("other markers moved")
	}
	if s.Frame().Dragging != "" {
		t.Error("drag session should be cleared")
	}
}

func TestLiveDragMovesPath(t *testing.T) {
	s := newScene(t, true, newRecorder())
	p := position(t, s, "2022")
	s.PointerDown("2022", p)
	s.PointerMove(p.Add(geom.Offset{DX: 30}))

	f := s.Frame()
	m, _ := f.Marker("2022")
	if m.Position.X != p.X+30 {
		t.Errorf("live position = %v, want x %v", m.Position, p.X+30)
	}
	if got := f.Path.Eval(f.Path.Knot(1)); got.Dist(m.Position) > 1e-9 {
		t.Errorf("path does not follow the live drag: %v", got)
	}
}

func TestClickTogglesExpansion(t *testing.T) {
	rec := newRecorder()
	s := newScene(t, true, rec)
	p := position(t, s, "2022")

	s.PointerDown("2022", p)
	out := s.PointerUp(p.Add(geom.Offset{DX: 1}))
	if out.Gesture != drag.Click || out.Expanded != "2022" {
		t.Fatalf("click = %+v", out)
	}
	if !s.IsExpanded("2022") || s.IsExpanded("2021") || s.IsExpanded("2023") {
		t.Error("only 2022 should be expanded")
	}
	if rec.calls != 0 || len(rec.navigated) != 0 {
		t.Error("a click on a year marker neither persists nor navigates")
	}

	f := s.Frame()
	members := f.Members()
	if len(members) != 2 || members[0].ID != "r3" || members[1].ID != "r4" {
		t.Fatalf("members = %+v", members)
	}
	for _, m := range members {
		if m.Parent != "2022" || m.Draggable {
			t.Errorf("member %s: parent %q draggable %v", m.ID, m.Parent, m.Draggable)
		}
	}

	s.PointerDown("2022", p)
	if out := s.PointerUp(p); out.Expanded != "" || s.IsExpanded("2022") {
		t.Errorf("second click should collapse: %+v", out)
	}
}

func TestExpandingAnotherGroupCollapsesFirst(t *testing.T) {
	s := newScene(t, false, newRecorder())
	s.Activate("2021")
	s.Activate("2023")
	if s.IsExpanded("2021") || !s.IsExpanded("2023") {
		t.Error("activating 2023 should collapse 2021")
	}
	if n := len(s.Frame().Members()); n != 1 {
		t.Errorf("2023 has %d members drawn, want 1", n)
	}
}

func TestMemberClickNavigates(t *testing.T) {
	rec := newRecorder()
	s := newScene(t, true, rec)
	s.Activate("2021")
	p := position(t, s, "r2")

	if !s.PointerDown("r2", p) {
		t.Fatal("press on a member should be tracked")
	}
	if s.Dragging() {
		t.Error("members are not draggable")
	}
	out := s.PointerUp(p)
	if out.Navigate != "r2" || len(rec.navigated) != 1 || rec.navigated[0] != "r2" {
		t.Errorf("navigate = %+v, calls %v", out, rec.navigated)
	}
	if !s.IsExpanded("2021") {
		t.Error("navigating must not collapse the group")
	}

	s.PointerDown("r2", p)
	if out := s.PointerUp(p.Add(geom.Offset{DX: 50})); out.Gesture != drag.None || rec.calls != 0 {
		t.Errorf("swipe on member = %+v", out)
	}
}

func TestViewerCannotDrag(t *testing.T) {
	rec := newRecorder()
	s := newScene(t, false, rec)
	p := position(t, s, "2022")

	s.PointerDown("2022", p)
	s.PointerMove(p.Add(geom.Offset{DX: 40}))
	if position(t, s, "2022") != p {
		t.Error("viewer moved a marker")
	}
	out := s.PointerUp(p.Add(geom.Offset{DX: 40}))
	if out.Gesture != drag.None || rec.calls != 0 {
		t.Errorf("viewer drag = %+v", out)
	}

	s.PointerDown("2022", p)
	if out := s.PointerUp(p); out.Expanded != "2022" {
		t.Errorf("viewer click should still expand: %+v", out)
	}
}

func TestRevokedAuthorizationKeepsVisualButDoesNotPersist(t *testing.T) {
	rec := newRecorder()
	allowed := true
	s := New(fiveRides(), DefaultConfig(),
		WithPersister(rec),
		WithAuthorizer(AuthorizerFunc(func() bool { return allowed })),
	)
	p := position(t, s, "2022")

	s.PointerDown("2022", p)
	s.PointerMove(p.Add(geom.Offset{DX: 20}))
	allowed = false
	out := s.PointerUp(p.Add(geom.Offset{DX: 20}))

	if out.Gesture != drag.Drag || out.Persisted || rec.calls != 0 {
		t.Errorf("revoked drag = %+v, persist calls %d", out, rec.calls)
	}
	if got := position(t, s, "2022"); got.X != p.X+20 {
		t.Errorf("visual result should stay for the session, got %v", got)
	}
}

func TestCancelPersistsDrag(t *testing.T) {
	rec := newRecorder()
	s := newScene(t, true, rec)
	p := position(t, s, "2021")

	s.PointerDown("2021", p)
	s.PointerMove(p.Add(geom.Offset{DX: -12, DY: 6}))
	out := s.PointerCancel()
	if out.Gesture != drag.Drag || rec.persisted["2021"] != (geom.Offset{DX: -12, DY: 6}) {
		t.Errorf("cancel = %+v, persisted %v", out, rec.persisted)
	}

	s.PointerDown("2021", position(t, s, "2021"))
	if out := s.PointerCancel(); out.Gesture != drag.None || s.IsExpanded("2021") {
		t.Errorf("cancelled click = %+v", out)
	}
}

func TestDragIsClampedToPolicy(t *testing.T) {
	rec := newRecorder()
	s := newScene(t, true, rec)
	p := position(t, s, "2022")

	s.PointerDown("2022", p)
	s.PointerUp(p.Add(geom.Offset{DY: 400}))

	limits := s.Config().Policy.Limits(760, 900)
	if got := rec.persisted["2022"]; got.DY != limits.MaxDY {
		t.Errorf("persisted dy = %v, want clamp to %v", got.DY, limits.MaxDY)
	}
}

func TestSecondPressIgnoredDuringDrag(t *testing.T) {
	s := newScene(t, true, newRecorder())
	s.PointerDown("2021", position(t, s, "2021"))
	if s.PointerDown("2022", position(t, s, "2022")) {
		t.Error("a second press during a drag must be ignored")
	}
}

func TestHoverPreview(t *testing.T) {
	s := newScene(t, false, newRecorder())
	if !s.Hover("2022") {
		t.Fatal("Hover on a known marker should succeed")
	}
	f := s.Frame()
	if f.Preview == nil || f.Preview.Entry.ID != "r3" || f.Preview.MarkerID != "2022" {
		t.Fatalf("Preview = %+v", f.Preview)
	}
	m, _ := f.Marker("2022")
	if !m.Hovered {
		t.Error("hovered marker should be flagged")
	}
	wantSide := "right"
	if m.Position.X > f.Width/2 {
		wantSide = "left"
	}
	if f.Preview.Side.String() != wantSide {
		t.Errorf("side = %v, want %s", f.Preview.Side, wantSide)
	}

	s.Hover("2023")
	s.Leave("2022")
	if f := s.Frame(); f.Preview == nil || f.Preview.MarkerID != "2023" {
		t.Error("stale leave cleared the newer preview")
	}
	s.Leave("2023")
	if s.Frame().Preview != nil {
		t.Error("leave should clear the preview")
	}
	if s.Hover("nope") {
		t.Error("unknown marker cannot be hovered")
	}
}

func TestGroupingNone(t *testing.T) {
	rec := newRecorder()
	cfg := DefaultConfig()
	cfg.Grouping = GroupingNone
	s := New(fiveRides(), cfg, WithNavigator(rec), WithPersister(rec), WithAuthorizer(drag.Static(true)))

	f := s.Frame()
	if len(f.Markers) != 5 || f.Markers[0].Kind != KindEntry || f.Markers[0].Label != "Mar 2021" {
		t.Fatalf("markers = %+v", f.Markers)
	}
	p := position(t, s, "r4")
	s.PointerDown("r4", p)
	if out := s.PointerUp(p); out.Navigate != "r4" {
		t.Errorf("click on entry = %+v", out)
	}
	s.PointerDown("r4", p)
	s.PointerUp(p.Add(geom.Offset{DX: 10}))
	if rec.persisted["r4"] != (geom.Offset{DX: 10}) {
		t.Errorf("entry offsets are keyed by entry ID: %v", rec.persisted)
	}
}

func TestInvalidDatesAreSkippedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	entries := append(fiveRides(), timeline.Entry{ID: "bad", Title: "?", Date: "someday"})
	s := New(entries, DefaultConfig(), WithLogger(log.New(&buf)))

	f := s.Frame()
	if f.Skipped != 1 || len(f.Bases()) != 3 {
		t.Errorf("Skipped = %d, bases = %d", f.Skipped, len(f.Bases()))
	}
	if !bytes.Contains(buf.Bytes(), []byte("skipping entry")) {
		t.Errorf("skip not logged: %q", buf.String())
	}
}

func TestEmptyAndDegenerate(t *testing.T) {
	f := New(nil, DefaultConfig()).Frame()
	if !f.Empty || len(f.Markers) != 0 || !f.Path.Empty() {
		t.Errorf("empty frame = %+v", f)
	}

	s := New(fiveRides(), DefaultConfig())
	s.SetCanvasWidth(0)
	f = s.Frame()
	if len(f.Markers) != 0 || !f.Path.Empty() {
		t.Errorf("zero-width frame should have no markers, got %d", len(f.Markers))
	}

	single := New(fiveRides()[:1], DefaultConfig()).Frame()
	if len(single.Markers) != 1 || !single.Path.Empty() {
		t.Errorf("single marker frame: %d markers, path empty %v", len(single.Markers), single.Path.Empty())
	}
}

func TestMarkerAt(t *testing.T) {
	s := newScene(t, false, newRecorder())
	p := position(t, s, "2023")
	if id, ok := s.MarkerAt(p.Add(geom.Offset{DX: 3, DY: -2}), 10); !ok || id != "2023" {
		t.Errorf("MarkerAt near 2023 = %q, %v", id, ok)
	}
	if _, ok := s.MarkerAt(geom.Pt(-100, -100), 10); ok {
		t.Error("MarkerAt far away should miss")
	}
}

func TestSetCanvasWidthRescalesLimits(t *testing.T) {
	s := newScene(t, true, newRecorder(), WithOffsets(map[string]geom.Offset{"2022": {DX: 200}}))
	wide, _ := s.Frame().Marker("2022")
	s.SetCanvasWidth(380)
	narrow, _ := s.Frame().Marker("2022")
	if wide.Offset.DX != 200 {
		t.Errorf("wide canvas offset = %v", wide.Offset.DX)
	}
	if want := 380 * s.Config().Policy.MaxFracX; math.Abs(narrow.Offset.DX-want) > 1e-9 {
		t.Errorf("narrow canvas offset = %v, want %v", narrow.Offset.DX, want)
	}
	if s.Offset("2022").DX != 200 {
		t.Error("stored offset must not be rewritten by a narrow canvas")
	}
}

func TestEntryNamedLikeItsYearDoesNotShadowGroup(t *testing.T) {
	rec := newRecorder()
	entries := []timeline.Entry{
		{ID: "2022", Title: "Season opener", Date: "2022-01-10"},
		{ID: "x", Title: "Coast", Date: "2022-06-15"},
	}
	s := New(entries, DefaultConfig(), WithPersister(rec), WithNavigator(rec), WithAuthorizer(drag.Static(true)))
	p := position(t, s, "2022")

	s.PointerDown("2022", p)
	if out := s.PointerUp(p); out.Expanded != "2022" {
		t.Fatalf("first click = %+v", out)
	}
	members := s.Frame().Members()
	if len(members) != 2 || members[0].ID != "2022/2022" || members[0].Entry.ID != "2022" || members[1].ID != "x" {
		t.Fatalf("members = %+v", members)
	}

	s.PointerDown("2022", p)
	if !s.Dragging() {
		t.Error("year marker should stay draggable while expanded")
	}
	out := s.PointerUp(p)
	if out.Navigate != "" || out.Expanded != "" || s.IsExpanded("2022") {
		t.Errorf("second click should collapse: %+v", out)
	}
	if len(rec.navigated) != 0 {
		t.Errorf("navigated = %v", rec.navigated)
	}

	s.Activate("2022")
	if out := s.Activate("2022/2022"); out.Navigate != "2022" {
		t.Errorf("member click = %+v", out)
	}
}

func TestResizeDuringDragReclampsOffset(t *testing.T) {
	rec := newRecorder()
	s := newScene(t, true, rec)
	p := position(t, s, "2022")

	s.PointerDown("2022", p)
	s.PointerMove(p.Add(geom.Offset{DX: 250}))
	s.SetCanvasWidth(400)

	f := s.Frame()
	maxDX := s.Config().Policy.Limits(f.Width, f.Height).MaxDX
	live, _ := f.Marker("2022")
	if math.Abs(live.Offset.DX) > maxDX+1e-9 {
		t.Errorf("live dx = %v, limit %v", live.Offset.DX, maxDX)
	}

	out := s.PointerUp(p.Add(geom.Offset{DX: 250}))
	if !out.Persisted || math.Abs(out.Offset.DX-maxDX) > 1e-9 {
		t.Errorf("release = %+v, want dx %v", out, maxDX)
	}
	if got := rec.persisted["2022"]; math.Abs(got.DX-maxDX) > 1e-9 {
		t.Errorf("persisted dx = %v, want %v", got.DX, maxDX)
	}
}
