package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rvno/roadline/pkg/cache"
	pkgio "github.com/rvno/roadline/pkg/io"
	"github.com/rvno/roadline/pkg/observability"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/timeline"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the API and the terminal view use it to avoid duplicating the
// caching logic.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	entries, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Entries = entries
	result.EntriesHash = cache.HashJSON(entries)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EntryCount = len(entries)

	r.Logger.Info("loaded entries",
		"entries", len(entries),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	frame, key, layoutHit, err := r.LayoutWithCacheInfo(ctx, entries, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Frame = frame
	result.FrameKey = key
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.MarkerCount = len(frame.Markers)
	result.Stats.SkipCount = frame.Skipped
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed frame",
		"markers", len(frame.Markers),
		"skipped", frame.Skipped,
		"size", fmt.Sprintf("%.0fx%.0f", frame.Width, frame.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, frame, key, entries, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the entries named by opts.Source, or returns a copy of
// opts.Entries when no source is set.
func (r *Runner) Load(ctx context.Context, opts Options) ([]timeline.Entry, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Source == "" {
		return slices.Clone(opts.Entries), nil
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Source)
	start := time.Now()

	entries, err := pkgio.ImportEntries(opts.Source)
	var skipped int
	if err == nil {
		_, bad := timeline.Sort(entries)
		skipped = len(bad)
	}
	hooks.OnLoadComplete(ctx, opts.Source, len(entries), skipped, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// LayoutWithCacheInfo derives the frame with caching. It returns the frame,
// its cache key and whether it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, entries []timeline.Entry, opts Options) (road.Frame, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return road.Frame{}, "", false, err
	}

	key := r.Keyer.FrameKey(cache.HashJSON(entries), opts.FrameKeyOpts())
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var f road.Frame
			if err := json.Unmarshal(data, &f); err == nil {
				hooks.OnCacheHit(ctx, "frame")
				return f, key, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		hooks.OnCacheMiss(ctx, "frame")
	}

	f := GenerateFrame(entries, opts)

	if data, err := json.Marshal(f); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.FrameTTL); err == nil {
			hooks.OnCacheSet(ctx, "frame", len(data))
		}
	}
	return f, key, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache info.
func (r *Runner) Layout(ctx context.Context, entries []timeline.Entry, opts Options) (road.Frame, error) {
	f, _, _, err := r.LayoutWithCacheInfo(ctx, entries, opts)
	return f, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// frameKey identifies the frame; an empty key falls back to a hash of the frame.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f road.Frame, frameKey string, entries []timeline.Entry, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	if frameKey == "" {
		frameKey = cache.HashJSON(struct {
			Frame   road.Frame
			Entries []timeline.Entry
		}{f, entries})
	}
	hooks := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(frameKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, "artifact")
				break
			}
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	pipe := observability.Pipeline()
	pipe.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(f, entries, opts)
	pipe.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(frameKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, f road.Frame, entries []timeline.Entry, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, "", entries, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
