package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rvno/roadline/pkg/cache"
	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/observability"
	"github.com/rvno/roadline/pkg/timeline"
)

func rides() []timeline.Entry {
	return []timeline.Entry{
		{ID: "r1", Title: "Season opener", Date: "2021-03-01"},
		{ID: "r2", Title: "Mountain loop", Date: "2021-07-04"},
		{ID: "r3", Title: "Winter run", Date: "2022-01-10"},
		{ID: "r4", Title: "Coast", Date: "2022-06-15", Location: "Outer Banks", PhotoCount: 42},
		{ID: "r5", Title: "Rally", Date: "2023-02-20"},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"handdrawn", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateType(t *testing.T) {
	tests := []struct {
		typ     string
		wantErr bool
	}{
		{"road", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateType(tt.typ)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateType(%q) error = %v, wantErr %v", tt.typ, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Entries: rides()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Type != DefaultType {
		t.Errorf("Type = %q, want %q", opts.Type, DefaultType)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width = %v, want %v", opts.Width, DefaultWidth)
	}
	if opts.Grouping != "year" {
		t.Errorf("Grouping = %q, want year", opts.Grouping)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"nothing to load", Options{}, errors.ErrCodeInvalidInput},
		{"bad width", Options{Entries: rides(), Width: -1}, errors.ErrCodeInvalidCanvas},
		{"bad grouping", Options{Entries: rides(), Grouping: "month"}, errors.ErrCodeInvalidInput},
		{"bad offset key", Options{Entries: rides(), Offsets: map[string]geom.Offset{"../x": {}}}, errors.ErrCodeInvalidKey},
		{"bad style", Options{Entries: rides(), Style: "crayon"}, errors.ErrCodeInvalidStyle},
		{"bad format", Options{Entries: rides(), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsEmptyEntriesAreValid(t *testing.T) {
	opts := Options{Entries: []timeline.Entry{}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("empty entries should be valid: %v", err)
	}
}

func TestOptionsIsNodelink(t *testing.T) {
	if (&Options{Type: TypeRoad}).IsNodelink() {
		t.Error("road should not be nodelink")
	}
	if !(&Options{Type: TypeNodelink}).IsNodelink() {
		t.Error("nodelink should be nodelink")
	}
}

func TestSceneConfig(t *testing.T) {
	opts := Options{Width: 380, Grouping: "none"}
	cfg := opts.SceneConfig()
	if cfg.ContainerWidth != 380 {
		t.Errorf("ContainerWidth = %v, want 380", cfg.ContainerWidth)
	}
	if cfg.Grouping.String() != "none" {
		t.Errorf("Grouping = %v, want none", cfg.Grouping)
	}
}

func TestArtifactKeyOptsVaryByFormat(t *testing.T) {
	opts := Options{Style: "simple", Type: "road"}
	k := cache.NewDefaultKeyer()
	a := k.ArtifactKey("f", opts.ArtifactKeyOpts("svg"))
	b := k.ArtifactKey("f", opts.ArtifactKeyOpts("json"))
	if a == b {
		t.Error("formats should not share a cache key")
	}
}

func TestStyleFor(t *testing.T) {
	for _, name := range []string{"", "simple", "handdrawn"} {
		s, err := StyleFor(name, 7)
		if err != nil {
			t.Errorf("StyleFor(%q): %v", name, err)
			continue
		}
		want := name
		if want == "" {
			want = "simple"
		}
		if s.Name() != want {
			t.Errorf("StyleFor(%q).Name() = %q", name, s.Name())
		}
	}
	if _, err := StyleFor("crayon", 7); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("unknown style error = %v", err)
	}
}

func TestGenerateFrameAppliesOptions(t *testing.T) {
	opts := Options{
		Entries:  rides(),
		Expanded: "2022",
		Preview:  "r4",
		Offsets:  map[string]geom.Offset{"2021": {DX: 12, DY: -5}},
	}
	f := GenerateFrame(rides(), opts)

	if f.Expanded != "2022" {
		t.Errorf("Expanded = %q, want 2022", f.Expanded)
	}
	if len(f.Members()) != 2 {
		t.Errorf("members = %d, want 2", len(f.Members()))
	}
	if f.Preview == nil || f.Preview.MarkerID != "r4" {
		t.Errorf("Preview = %+v, want r4", f.Preview)
	}
	m, ok := f.Marker("2021")
	if !ok {
		t.Fatal("missing 2021 marker")
	}
	if m.Offset != (geom.Offset{DX: 12, DY: -5}) {
		t.Errorf("2021 offset = %+v", m.Offset)
	}
}

func TestRunnerExecuteCachesStages(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Entries: rides(), Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if !strings.Contains(string(first.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing")
	}
	if first.Stats.EntryCount != 5 || first.Stats.MarkerCount != 3 {
		t.Errorf("stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if string(second.Artifacts["svg"]) != string(first.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
	if len(second.Frame.Markers) != len(first.Frame.Markers) || second.Frame.Height != first.Frame.Height {
		t.Error("cached frame differs")
	}
}

func TestRunnerRefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Entries: rides()}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Entries: rides(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh should miss: %+v", res.CacheInfo)
	}
}

func TestRunnerOffsetsChangeFrameKey(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, k1, _, err := r.LayoutWithCacheInfo(ctx, rides(), Options{Entries: rides()})
	if err != nil {
		t.Fatal(err)
	}
	_, k2, _, err := r.LayoutWithCacheInfo(ctx, rides(), Options{
		Entries: rides(),
		Offsets: map[string]geom.Offset{"2022": {DX: 15, DY: -10}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k2 {
		t.Error("offsets should change the frame key")
	}
}

func TestRunnerLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.json")
	data, _ := json.Marshal(rides())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	hooks := &countingPipelineHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	entries, err := r.Load(context.Background(), Options{Source: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("entries = %d, want 5", len(entries))
	}
	if hooks.loads != 1 {
		t.Errorf("load hooks = %d, want 1", hooks.loads)
	}

	_, err = r.Load(context.Background(), Options{Source: filepath.Join(t.TempDir(), "missing.json")})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestRenderNodelinkJSON(t *testing.T) {
	opts := Options{Entries: rides(), Type: TypeNodelink, Formats: []string{"json"}}
	out, err := Render(GenerateFrame(rides(), opts), rides(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var doc struct {
		Type  string `json:"type"`
		DOT   string `json:"dot"`
		Years []struct {
			Key   string   `json:"key"`
			Rides []string `json:"rides"`
		} `json:"years"`
	}
	if err := json.Unmarshal(out["json"], &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Type != "nodelink" || !strings.HasPrefix(doc.DOT, "digraph") {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Years) != 3 || len(doc.Years[0].Rides) != 2 {
		t.Errorf("years = %+v", doc.Years)
	}
}

func TestRenderEmptyTimeline(t *testing.T) {
	opts := Options{Entries: []timeline.Entry{}}
	out, err := Render(GenerateFrame(nil, opts), nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out["svg"]), "The road is waiting") {
		t.Error("empty timeline should render the placeholder")
	}
}

type countingPipelineHooks struct {
	observability.NoopPipelineHooks
	loads int
}

func (h *countingPipelineHooks) OnLoadStart(context.Context, string) { h.loads++ }
