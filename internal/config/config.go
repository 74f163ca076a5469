// Package config loads roadline.toml.
//
// Every section is optional; missing keys keep their defaults, which match
// the club site. Command-line flags override file values.
//
//	[canvas]
//	width = 760
//	grouping = "year"
//
//	[offsets]
//	backend = "sqlite"
//	path = "offsets.sqlite"
//
//	[server]
//	addr = ":8080"
//	admin_token = "change-me"
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rvno/roadline/pkg/cache"
	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/pipeline"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/road/cluster"
	"github.com/rvno/roadline/pkg/road/curve"
	"github.com/rvno/roadline/pkg/road/drag"
	"github.com/rvno/roadline/pkg/road/layout"
	"github.com/rvno/roadline/pkg/session"
)

// FileName is the config file looked up when no path is given.
const FileName = "roadline.toml"

// Config is the whole configuration file.
type Config struct {
	Canvas  Canvas          `toml:"canvas"`
	Layout  layout.Options  `toml:"layout"`
	Curve   curve.Options   `toml:"curve"`
	Offsets Offsets         `toml:"offsets"`
	Drag    Drag            `toml:"drag"`
	Cluster cluster.Options `toml:"cluster"`
	Render  Render          `toml:"render"`
	Server  Server          `toml:"server"`
	Cache   cache.Config    `toml:"cache"`
	Session Session         `toml:"session"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Canvas sizes the drawing.
type Canvas struct {
	Width     float64 `toml:"width"`
	Grouping  string  `toml:"grouping"`
	MaxWidth  float64 `toml:"max_width"`
	MinHeight float64 `toml:"min_height"`
	RowHeight float64 `toml:"row_height"`
	Extra     float64 `toml:"extra"`
}

// Offsets selects the offset store and the clamp policy.
type Offsets struct {
	Backend  string              `toml:"backend"`
	Path     string              `toml:"path"`
	Redis    offsets.RedisConfig `toml:"redis"`
	Mongo    offsets.MongoConfig `toml:"mongo"`
	MaxFracX float64             `toml:"max_frac_x"`
	MaxFracY float64             `toml:"max_frac_y"`
}

// Store returns the store settings.
func (o Offsets) Store() offsets.Config {
	return offsets.Config{Backend: o.Backend, Path: o.Path, Redis: o.Redis, Mongo: o.Mongo}
}

// Policy returns the clamp policy.
func (o Offsets) Policy() offsets.Policy {
	return offsets.Policy{MaxFracX: o.MaxFracX, MaxFracY: o.MaxFracY}
}

// Drag tunes gesture recognition.
type Drag struct {
	ClickThreshold float64 `toml:"click_threshold"`
}

// Render holds render defaults.
type Render struct {
	Style    string   `toml:"style"`
	Formats  []string `toml:"formats"`
	Seed     uint64   `toml:"seed"`
	Popups   bool     `toml:"popups"`
	Title    string   `toml:"title"`
	Subtitle string   `toml:"subtitle"`
	Links    string   `toml:"links"`
	Entries  string   `toml:"entries"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	AdminToken   string        `toml:"admin_token"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	SceneTTL     time.Duration `toml:"scene_ttl"`
}

// Session configures editor sessions.
type Session struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
	TTL     time.Duration     `toml:"ttl"`
}

// Store returns the store settings.
func (s Session) Store() session.Config {
	return session.Config{Backend: s.Backend, Dir: s.Dir, Redis: s.Redis}
}

// Default returns the built-in configuration.
func Default() Config {
	scene := road.DefaultConfig()
	policy := offsets.DefaultPolicy()
	return Config{
		Canvas: Canvas{
			Width:     scene.ContainerWidth,
			Grouping:  scene.Grouping.String(),
			MaxWidth:  scene.Canvas.MaxWidth,
			MinHeight: scene.Canvas.MinHeight,
			RowHeight: scene.Canvas.RowHeight,
			Extra:     scene.Canvas.Extra,
		},
		Layout:  scene.Layout,
		Curve:   scene.Curve,
		Offsets: Offsets{Backend: offsets.BackendFile, Path: "offsets.json", MaxFracX: policy.MaxFracX, MaxFracY: policy.MaxFracY},
		Drag:    Drag{ClickThreshold: drag.DefaultClickThreshold},
		Cluster: scene.Cluster,
		Render: Render{
			Style:   pipeline.DefaultStyle,
			Formats: []string{pipeline.FormatSVG},
			Seed:    pipeline.DefaultSeed,
			Title:   "The Road So Far",
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			SceneTTL:     30 * time.Minute,
		},
		Cache:   cache.Config{Backend: "file"},
		Session: Session{Backend: "memory", TTL: session.DefaultTTL},
	}
}

// Load reads path over the defaults. With an empty path it looks for
// roadline.toml in the working directory and then in ~/.config/roadline;
// finding neither returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = discover()
		if path == "" {
			return cfg, nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	return cfg, cfg.Validate()
}

func discover() string {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "roadline", FileName))
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c
		}
	}
	return ""
}

// Validate checks values a typo could break.
func (c Config) Validate() error {
	if err := errors.ValidateCanvasWidth(c.Canvas.Width); err != nil {
		return err
	}
	if _, err := road.ParseGrouping(c.Canvas.Grouping); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "canvas.grouping")
	}
	if c.Offsets.MaxFracX < 0 || c.Offsets.MaxFracY < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "offsets.max_frac_x and max_frac_y must not be negative")
	}
	if c.Drag.ClickThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "drag.click_threshold must not be negative")
	}
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return err
	}
	return pipeline.ValidateFormats(c.Render.Formats)
}

// ToSceneConfig returns the scene settings.
func (c Config) ToSceneConfig() road.Config {
	g, err := road.ParseGrouping(c.Canvas.Grouping)
	if err != nil {
		g = road.GroupingYear
	}
	return road.Config{
		ContainerWidth: c.Canvas.Width,
		Grouping:       g,
		Canvas: layout.Canvas{
			MaxWidth:  c.Canvas.MaxWidth,
			MinHeight: c.Canvas.MinHeight,
			RowHeight: c.Canvas.RowHeight,
			Extra:     c.Canvas.Extra,
		},
		Layout:         c.Layout,
		Curve:          c.Curve,
		Policy:         c.Offsets.Policy(),
		Cluster:        c.Cluster,
		ClickThreshold: c.Drag.ClickThreshold,
	}
}

// PipelineOptions returns pipeline options prefilled from the config.
func (c Config) PipelineOptions() pipeline.Options {
	scene := c.ToSceneConfig()
	return pipeline.Options{
		Source:   c.Render.Entries,
		Width:    c.Canvas.Width,
		Grouping: c.Canvas.Grouping,
		Formats:  append([]string(nil), c.Render.Formats...),
		Style:    c.Render.Style,
		Seed:     c.Render.Seed,
		Popups:   c.Render.Popups,
		Title:    c.Render.Title,
		Subtitle: c.Render.Subtitle,
		Links:    c.Render.Links,
		Scene:    &scene,
	}
}
