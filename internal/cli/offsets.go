package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/pipeline"
)

// offsetsCommand creates the command group for stored marker offsets.
func (c *CLI) offsetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "offsets",
		Aliases: []string{"offset"},
		Short:   "Inspect and edit stored marker offsets",
		Long: `Offsets are the nudges editors give markers by dragging them. They are
keyed by year (or ride ID when grouping is off) and kept in the store
configured under [offsets]. Changing them needs an editor session.`,
	}
	cmd.AddCommand(c.offsetsListCommand())
	cmd.AddCommand(c.offsetsGetCommand())
	cmd.AddCommand(c.offsetsSetCommand())
	cmd.AddCommand(c.offsetsResetCommand())
	return cmd
}

func (c *CLI) offsetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored offset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, sc, err := c.openOffsets(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			all, err := offsets.Snapshot(ctx, st)
			if err != nil {
				return err
			}
			printKeyValue("Store", offsets.Describe(sc))
			if len(all) == 0 {
				printInfo("No offsets stored; every marker sits on the road")
				return nil
			}
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				printKeyValue(k, formatOffset(all[k]))
			}
			return nil
		},
	}
}

func (c *CLI) offsetsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateKey(args[0]); err != nil {
				return err
			}
			st, _, err := c.openOffsets(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			o, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatOffset(o))
			return nil
		},
	}
}

func (c *CLI) offsetsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <dx> <dy>",
		Short: "Store an offset, clamped to the canvas",
		Example: `  roadline offsets set 2022 40 -12
  roadline offsets set ride-17 -- -30 5`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key := args[0]
			if err := errors.ValidateKey(key); err != nil {
				return err
			}
			o, err := parseOffset(args[1], args[2])
			if err != nil {
				return err
			}
			sess, err := c.requireEditor(ctx)
			if err != nil {
				return err
			}

			clamped, err := c.clampOffset(o)
			if err != nil {
				return err
			}
			st, _, err := c.openOffsets(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Set(ctx, key, clamped); err != nil {
				return err
			}
			c.Logger.Debug("Offset stored", "key", key, "by", sess.Name)

			printSuccess("Stored %s %s", StyleHighlight.Render(key), formatOffset(clamped))
			if clamped != o {
				printDetail("clamped from %s", formatOffset(o))
			}
			return nil
		},
	}
}

func (c *CLI) offsetsResetCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [key]",
		Short: "Put a marker back on the road",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !all {
				if err := errors.ValidateKey(args[0]); err != nil {
					return err
				}
			}
			if _, err := c.requireEditor(ctx); err != nil {
				return err
			}
			st, _, err := c.openOffsets(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			keys := args
			if all {
				snap, err := offsets.Snapshot(ctx, st)
				if err != nil {
					return err
				}
				keys = make([]string, 0, len(snap))
				for k := range snap {
					keys = append(keys, k)
				}
				sort.Strings(keys)
			}
			for _, k := range keys {
				if err := st.Delete(ctx, k); err != nil {
					return err
				}
			}
			printSuccess("Reset %s", plural(len(keys), "offset", "offsets"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset every stored offset")
	return cmd
}

// clampOffset bounds o by the configured policy against the canvas the
// configured entries produce, or the minimum canvas when none are set.
func (c *CLI) clampOffset(o geom.Offset) (geom.Offset, error) {
	cfg, err := c.config()
	if err != nil {
		return o, err
	}
	scene := cfg.ToSceneConfig()
	w, h := scene.Canvas.Size(scene.ContainerWidth, 0)
	if cfg.Render.Entries != "" {
		entries, _, err := c.loadEntries("")
		if err != nil {
			c.Logger.Warn("Could not read entries, clamping to the minimum canvas", "err", err)
		} else {
			opts := cfg.PipelineOptions()
			f := pipeline.GenerateFrame(entries, opts)
			w, h = f.Width, f.Height
		}
	}
	return scene.Policy.Clamp(o, w, h), nil
}

func parseOffset(dx, dy string) (geom.Offset, error) {
	x, err := strconv.ParseFloat(dx, 64)
	if err != nil {
		return geom.Offset{}, errors.New(errors.ErrCodeInvalidInput, "dx %q is not a number", dx)
	}
	y, err := strconv.ParseFloat(dy, 64)
	if err != nil {
		return geom.Offset{}, errors.New(errors.ErrCodeInvalidInput, "dy %q is not a number", dy)
	}
	if !(geom.Point{X: x, Y: y}).Finite() {
		return geom.Offset{}, errors.New(errors.ErrCodeInvalidInput, "offset must be finite")
	}
	return geom.Offset{DX: x, DY: y}, nil
}

func formatOffset(o geom.Offset) string {
	return fmt.Sprintf("dx %+.1f  dy %+.1f", o.DX, o.DY)
}
