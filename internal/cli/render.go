package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/pipeline"
)

// sceneFlags are the layout flags shared by render, layout and tui.
type sceneFlags struct {
	width     float64
	grouping  string
	expanded  string
	preview   string
	noOffsets bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "container width in pixels (default from config)")
	cmd.Flags().StringVar(&f.grouping, "grouping", "", "marker grouping: year, none, entry (default from config)")
	cmd.Flags().StringVar(&f.expanded, "expanded", "", "year to draw expanded, e.g. 2022")
	cmd.Flags().StringVar(&f.preview, "preview", "", "marker ID whose preview card to draw")
	cmd.Flags().BoolVar(&f.noOffsets, "no-offsets", false, "ignore stored marker offsets")
}

func (f *sceneFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("width") {
		opts.Width = f.width
	}
	if f.grouping != "" {
		opts.Grouping = f.grouping
	}
	opts.Expanded = f.expanded
	opts.Preview = f.preview
}

// renderFlags holds the render command's own flags.
type renderFlags struct {
	sceneFlags
	output    string
	formats   string
	vizType   string
	style     string
	seed      uint64
	popups    bool
	title     string
	subtitle  string
	links     string
	scale     float64
	detailed  bool
	collapsed bool
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [entries]",
		Short: "Render the ride timeline to SVG, PNG, PDF or JSON",
		Long: `Render the ride timeline to one or more files.

The entries file may be JSON, YAML or CSV; without an argument render.entries
from the config is used. Stored marker offsets are applied unless
--no-offsets is set. Frames and renders are cached; --refresh recomputes.

Use -t nodelink for a Graphviz overview of years and rides.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd, input, &flags)
		},
	}

	flags.sceneFlags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg, png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&flags.vizType, "type", "t", "", "visualization type: road (default), nodelink")
	cmd.Flags().StringVar(&flags.style, "style", "", "visual style: simple, handdrawn (default from config)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "hand-drawn jitter seed")
	cmd.Flags().BoolVar(&flags.popups, "popups", false, "embed preview cards for every ride (svg)")
	cmd.Flags().StringVar(&flags.title, "title", "", "heading drawn above the road")
	cmd.Flags().StringVar(&flags.subtitle, "subtitle", "", "line drawn under the heading")
	cmd.Flags().StringVar(&flags.links, "links", "", "printf pattern turning ride IDs into URLs, e.g. /rides/%s")
	cmd.Flags().Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show dates and places (nodelink)")
	cmd.Flags().BoolVar(&flags.collapsed, "collapsed", false, "draw years only (nodelink)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// renderOptions merges config defaults with the flags the user set.
func (c *CLI) renderOptions(ctx context.Context, cmd *cobra.Command, input string, flags *renderFlags) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.PipelineOptions()
	if input != "" {
		opts.Source = input
	}
	if opts.Source == "" {
		return opts, errors.New(errors.ErrCodeInvalidInput, "no entries file given and render.entries is not set")
	}
	flags.sceneFlags.apply(cmd, &opts)

	if flags.formats != "" {
		opts.Formats = parseFormats(flags.formats)
	}
	set := cmd.Flags().Changed
	if flags.vizType != "" {
		opts.Type = flags.vizType
	}
	if flags.style != "" {
		opts.Style = flags.style
	}
	if set("seed") {
		opts.Seed = flags.seed
	}
	if set("popups") {
		opts.Popups = flags.popups
	}
	if set("title") {
		opts.Title = flags.title
	}
	if set("subtitle") {
		opts.Subtitle = flags.subtitle
	}
	if set("links") {
		opts.Links = flags.links
	}
	opts.Scale = flags.scale
	opts.Detailed = flags.detailed
	opts.Collapsed = flags.collapsed
	opts.Refresh = flags.refresh
	opts.Logger = c.Logger

	if !flags.noOffsets && !opts.IsNodelink() {
		offs, err := c.loadOffsets(ctx)
		if err != nil {
			return opts, err
		}
		opts.Offsets = offs
	}
	return opts, opts.ValidateAndSetDefaults()
}

func (c *CLI) runRender(cmd *cobra.Command, input string, flags *renderFlags) error {
	ctx := cmd.Context()
	opts, err := c.renderOptions(ctx, cmd, input, flags)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(res.Artifacts, outputBase(flags.output, opts.Source), opts.Formats)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(len(paths), "file", "files")))

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.EntryCount, res.Stats.MarkerCount, res.Stats.SkipCount, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	if res.Stats.SkipCount > 0 {
		printWarning("%s left out: their dates did not parse", plural(res.Stats.SkipCount, "ride", "rides"))
	}
	return nil
}

// loadOffsets reads every stored offset. A store that cannot be opened is
// reported and treated as empty so a render never fails on it.
func (c *CLI) loadOffsets(ctx context.Context) (map[string]geom.Offset, error) {
	st, sc, err := c.openOffsets(ctx)
	if err != nil {
		c.Logger.Warn("Offsets unavailable, drawing base positions", "store", offsets.Describe(sc), "err", err)
		return nil, nil
	}
	defer st.Close()
	return offsets.Snapshot(ctx, st)
}

// outputBase derives the output path stem: the input name without its
// extension when no output is given, otherwise output with any format
// extension stripped.
func outputBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes one file per format as base.format and returns the
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, base string, formats []string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := base + "." + f
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
