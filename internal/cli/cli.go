// Package cli implements the roadline command-line interface.
//
// Commands render a club timeline to files, print the computed layout, edit
// stored marker offsets, manage the editor session, open an interactive
// terminal view of the road and serve the HTTP API. Every command reads
// roadline.toml (see internal/config) and accepts --verbose for debug logs.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rvno/roadline/internal/config"
	"github.com/rvno/roadline/pkg/cache"
	"github.com/rvno/roadline/pkg/errors"
	pkgio "github.com/rvno/roadline/pkg/io"
	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/pipeline"
	"github.com/rvno/roadline/pkg/session"
	"github.com/rvno/roadline/pkg/timeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "roadline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the loaded configuration, reading it on first use.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("Loaded config", "path", cfg.Path)
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		// A broken cache never blocks a render.
		c.Logger.Warn("Cache unavailable, continuing without it", "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// openOffsets opens the configured offset store.
func (c *CLI) openOffsets(ctx context.Context) (offsets.Store, offsets.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, offsets.Config{}, err
	}
	sc := cfg.Offsets.Store()
	st, err := offsets.Open(ctx, sc)
	if err != nil {
		return nil, sc, errors.Wrap(errors.ErrCodeStorage, err, "open offsets (%s)", offsets.Describe(sc))
	}
	return st, sc, nil
}

// sessionStore opens the CLI editor session file.
func (c *CLI) sessionStore() (*session.CLIStore, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return session.NewCLIStore(cfg.Session.Dir)
}

// loadEntries reads entries from path, or from render.entries in the config
// when path is empty.
func (c *CLI) loadEntries(path string) ([]timeline.Entry, string, error) {
	if path == "" {
		cfg, err := c.config()
		if err != nil {
			return nil, "", err
		}
		path = cfg.Render.Entries
	}
	if path == "" {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "no entries file given and render.entries is not set")
	}
	entries, err := pkgio.ImportEntries(path)
	return entries, path, err
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the
// per-user default (~/.cache/roadline/ on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg != nil && c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
