package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rvno/roadline/internal/server"
	"github.com/rvno/roadline/pkg/errors"
	pkgio "github.com/rvno/roadline/pkg/io"
	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/session"
	"github.com/rvno/roadline/pkg/timeline"
)

// serveCommand creates the command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve [entries]",
		Short: "Serve the timeline and editor API over HTTP",
		Long: `Serve the timeline as JSON and SVG, stored offsets, editor sessions and
interactive scenes. The entries file is re-read on every request, so
edits show up without a restart.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, addr, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if input == "" {
		input = cfg.Render.Entries
	}
	if input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no entries file given and render.entries is not set")
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if cfg.Server.AdminToken == "" {
		c.Logger.Warn("server.admin_token is empty: editing is disabled")
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, sc, err := c.openOffsets(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := session.Open(ctx, cfg.Session.Store())
	if err != nil {
		return err
	}
	defer sessions.Close()

	defaults := cfg.PipelineOptions()
	defaults.Source = ""
	srv := server.New(server.Config{
		Addr:         addr,
		AdminToken:   cfg.Server.AdminToken,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		SceneTTL:     cfg.Server.SceneTTL,
		SessionTTL:   cfg.Session.TTL,
		Defaults:     defaults,
	}, fileEntries(input),
		server.WithLogger(c.Logger),
		server.WithRunner(runner),
		server.WithOffsets(st),
		server.WithSessions(sessions),
	)
	defer srv.Close()

	printInfo("Serving %s on %s", StyleValue.Render(input), StyleHighlight.Render(addr))
	printDetail("Offsets: %s", offsets.Describe(sc))
	return srv.Run(ctx)
}

// fileEntries reads path on every call.
func fileEntries(path string) server.EntrySource {
	return func(context.Context) ([]timeline.Entry, error) {
		return pkgio.ImportEntries(path)
	}
}
