package cli

import (
	"github.com/spf13/cobra"

	"github.com/rvno/roadline/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Roadline draws a club's rides as markers along a winding road",
		Long: `Roadline lays out a motorcycle club's ride history as markers along a
hand-drawn road, one marker per year. Click a year to fan out its rides,
drag a marker to nudge it, and render the result to SVG, PNG, PDF or JSON.`,
		Version:      buildinfo.Resolved(),
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+appName+".toml, then ~/.config/"+appName+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.offsetsCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
