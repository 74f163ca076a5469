// Package pipeline provides the load → layout → render pipeline for roadline.
//
// The CLI, the HTTP API and the terminal view all turn a list of timeline
// entries into a frame and then into output files. This package holds that
// sequence in one place so every entry point draws the same road.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read entries from a JSON, YAML or CSV file (or take them as given)
//  2. Layout: Build a scene with the stored offsets and derive its frame
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:   "rides.yaml",
//	    Expanded: "2022",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	entries, err := runner.Load(ctx, opts)
//	frame, err := runner.Layout(ctx, entries, opts)
//	artifacts, err := runner.Render(ctx, frame, entries, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rvno/roadline/pkg/cache"
	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/road/layout"
	"github.com/rvno/roadline/pkg/timeline"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the container width of the club site.
	DefaultWidth = layout.DefaultMaxWidth

	// DefaultSeed seeds the hand-drawn jitter.
	DefaultSeed = uint64(42)

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Visualization types.
const (
	TypeRoad     = "road"
	TypeNodelink = "nodelink"
)

// Styles.
const (
	StyleSimple    = "simple"
	StyleHanddrawn = "handdrawn"
)

// DefaultType is the default visualization type.
const DefaultType = TypeRoad

// DefaultStyle is the default visual style.
const DefaultStyle = StyleSimple

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple:    true,
	StyleHanddrawn: true,
}

// ValidTypes is the set of supported visualization types.
var ValidTypes = map[string]bool{
	TypeRoad:     true,
	TypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source  string           `json:"source,omitempty"`  // entries file (json, yaml, csv)
	Entries []timeline.Entry `json:"entries,omitempty"` // used when Source is empty
	Refresh bool             `json:"refresh,omitempty"` // bypass the frame and artifact cache

	// Layout options
	Type     string                 `json:"type,omitempty"`
	Width    float64                `json:"width,omitempty"`
	Grouping string                 `json:"grouping,omitempty"`
	Expanded string                 `json:"expanded,omitempty"`
	Preview  string                 `json:"preview,omitempty"`
	Offsets  map[string]geom.Offset `json:"offsets,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	Seed      uint64   `json:"seed,omitempty"`
	Popups    bool     `json:"popups,omitempty"`
	Title     string   `json:"title,omitempty"`
	Subtitle  string   `json:"subtitle,omitempty"`
	Links     string   `json:"links,omitempty"` // printf pattern for entry URLs
	Scale     float64  `json:"scale,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`  // nodelink: date and location lines
	Collapsed bool     `json:"collapsed,omitempty"` // nodelink: year nodes only

	// Runtime options (not serialized)
	Scene  *road.Config `json:"-"` // base scene settings; nil uses road.DefaultConfig
	Logger *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Entries are the loaded entries, including any with bad dates.
	Entries []timeline.Entry

	// EntriesHash is the content hash of Entries.
	EntriesHash string

	// Frame is the laid-out road.
	Frame road.Frame

	// FrameKey is the cache key of Frame; artifact keys derive from it.
	FrameKey string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntryCount  int
	SkipCount   int
	MarkerCount int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the frame came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, handdrawn)", style)
	}
	return nil
}

// ValidateType checks that a visualization type is valid.
func ValidateType(t string) error {
	if !ValidTypes[t] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid type: %q (must be one of: road, nodelink)", t)
	}
	return nil
}

// ValidateOffsets checks every offset key.
func ValidateOffsets(offsets map[string]geom.Offset) error {
	for key := range offsets {
		if err := errors.ValidateKey(key); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that there is something to load.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" && o.Entries == nil {
		return errors.New(errors.ErrCodeInvalidInput, "source or entries is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for frame computation.
func (o *Options) SetLayoutDefaults() {
	if o.Type == "" {
		o.Type = DefaultType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Grouping == "" {
		o.Grouping = road.GroupingYear.String()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for frame computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateType(o.Type); err != nil {
		return err
	}
	if err := errors.ValidateCanvasWidth(o.Width); err != nil {
		return err
	}
	if _, err := road.ParseGrouping(o.Grouping); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "grouping")
	}
	return ValidateOffsets(o.Offsets)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateType(o.Type); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// IsNodelink returns true if this is a chronology diagram.
func (o *Options) IsNodelink() bool {
	return o.Type == TypeNodelink
}

// SceneConfig returns the scene settings for these options.
func (o *Options) SceneConfig() road.Config {
	cfg := road.DefaultConfig()
	if o.Scene != nil {
		cfg = *o.Scene
	}
	if o.Width > 0 {
		cfg.ContainerWidth = o.Width
	}
	if g, err := road.ParseGrouping(o.Grouping); err == nil {
		cfg.Grouping = g
	}
	return cfg
}

// FrameKeyOpts returns cache key options for frame computation.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Width:       o.Width,
		Grouping:    o.Grouping,
		Expanded:    o.Expanded,
		Preview:     o.Preview,
		OffsetsHash: cache.HashJSON(o.Offsets),
		ConfigHash:  cache.HashJSON(o.SceneConfig()),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Style:     o.Style,
		Type:      o.Type,
		Seed:      o.Seed,
		Popups:    o.Popups,
		Title:     o.Title,
		Subtitle:  o.Subtitle,
		Links:     o.Links,
		Scale:     o.Scale,
		Detailed:  o.Detailed,
		Collapsed: o.Collapsed,
	}
}
