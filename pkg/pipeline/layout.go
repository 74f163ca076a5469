package pipeline

import (
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/timeline"
)

// =============================================================================
// Scene and Frame
// =============================================================================

// BuildScene returns a scene over entries configured from opts: stored
// offsets applied, the requested group expanded and the requested marker
// previewed. Extra scene options (persister, navigator, authorizer) are
// applied after the ones derived from opts.
func BuildScene(entries []timeline.Entry, opts Options, sceneOpts ...road.Option) *road.Scene {
	opts.SetLayoutDefaults()

	base := []road.Option{
		road.WithOffsets(opts.Offsets),
		road.WithLogger(opts.Logger),
	}
	s := road.New(entries, opts.SceneConfig(), append(base, sceneOpts...)...)

	if opts.Expanded != "" {
		s.Toggle(opts.Expanded)
	}
	if opts.Preview != "" && !s.Hover(opts.Preview) {
		opts.Logger.Debug("preview marker not found", "id", opts.Preview)
	}
	return s
}

// GenerateFrame lays out entries and returns the resulting frame.
// An empty or fully invalid entry list yields an empty frame, never an error.
func GenerateFrame(entries []timeline.Entry, opts Options) road.Frame {
	return BuildScene(entries, opts).Frame()
}
