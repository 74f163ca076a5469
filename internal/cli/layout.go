package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rvno/roadline/pkg/pipeline"
	"github.com/rvno/roadline/pkg/render/sink"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/timeline"
)

// layoutCommand creates the layout command, which prints where every marker
// lands without rendering.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   sceneFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [entries]",
		Short: "Compute marker positions and print them as a table",
		Long: `Compute the road layout and print each marker's base position, stored
offset and drawn position. With -o the frame is written as JSON instead
(the same document as 'render -f json').`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLayout(cmd, input, &flags, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the frame as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, flags *sceneFlags, output string, noCache bool) error {
	ctx := cmd.Context()
	rf := renderFlags{sceneFlags: *flags}
	opts, err := c.renderOptions(ctx, cmd, input, &rf)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	f, hit, entries, err := c.computeFrame(ctx, runner, opts)
	if err != nil {
		return err
	}

	if output != "" {
		data, err := sink.RenderJSON(f, sink.WithJSONStyle(opts.Style), sink.WithJSONSeed(opts.Seed))
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(len(entries), len(f.Markers), f.Skipped, hit)
		printNewline()
		printNextStep("Render", appName+" render "+opts.Source)
		return nil
	}

	fmt.Println(StyleTitle.Render(fmt.Sprintf("Road %.0f × %.0f", f.Width, f.Height)))
	if f.Empty {
		printInfo("%s", sink.EmptyText)
		return nil
	}
	fmt.Println(markerTable(f))
	printStats(len(entries), len(f.Markers), f.Skipped, hit)
	return nil
}

func (c *CLI) computeFrame(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (road.Frame, bool, []timeline.Entry, error) {
	entries, err := runner.Load(ctx, opts)
	if err != nil {
		return road.Frame{}, false, nil, err
	}
	spinner := newSpinnerWithContext(ctx, "Laying out the road...")
	spinner.Start()
	f, _, hit, err := runner.LayoutWithCacheInfo(ctx, entries, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return road.Frame{}, false, nil, err
	}
	spinner.Stop()
	return f, hit, entries, ctx.Err()
}

// markerTable renders the frame's markers as a bordered table.
func markerTable(f road.Frame) string {
	header := lipgloss.NewStyle().Foreground(colorGravel).Bold(true)
	moved := lipgloss.NewStyle().Foreground(colorSignal)
	member := lipgloss.NewStyle().Foreground(colorAsphalt)

	rows := make([][]string, 0, len(f.Markers))
	for _, m := range f.Markers {
		rows = append(rows, []string{
			m.ID,
			string(m.Kind),
			m.Label,
			fmt.Sprint(m.Count),
			fmt.Sprintf("%.1f, %.1f", m.Base.X, m.Base.Y),
			fmt.Sprintf("%+.1f, %+.1f", m.Offset.DX, m.Offset.DY),
			fmt.Sprintf("%.1f, %.1f", m.Position.X, m.Position.Y),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorAsphalt)).
		Headers("ID", "Kind", "Label", "Rides", "Base", "Offset", "Drawn").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < 0 || row >= len(f.Markers) {
				return lipgloss.NewStyle()
			}
			m := f.Markers[row]
			switch {
			case m.Kind == road.KindMember:
				return member
			case !m.Offset.IsZero() && col == 5:
				return moved
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
