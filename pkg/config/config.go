// Package config loads editor configuration from TOML files.
//
// Configuration lives at ~/.config/patchbay/config.toml by default and
// covers routing geometry, canvas behavior, autosave policy, and block
// library search paths. Missing files and missing keys fall back to
// defaults, so a zero-config install works out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/patchbay/pkg/errors"
	"github.com/matzehuels/patchbay/pkg/route"
)

// Config is the top-level editor configuration.
type Config struct {
	Routing  Routing  `toml:"routing"`
	Canvas   Canvas   `toml:"canvas"`
	Autosave Autosave `toml:"autosave"`
	Library  Library  `toml:"library"`
}

// Routing controls wire route geometry.
type Routing struct {
	StubLength float64 `toml:"stub_length"`
	LaneGap    float64 `toml:"lane_gap"`
	Clearance  float64 `toml:"clearance"`
}

// Canvas controls grid and snapping behavior.
type Canvas struct {
	GridSize float64 `toml:"grid_size"`
	Snap     bool    `toml:"snap"`
}

// Autosave controls the revision store policy.
type Autosave struct {
	Enabled  bool   `toml:"enabled"`
	Interval string `toml:"interval"`
	Keep     int    `toml:"keep"`
}

// Library controls block library discovery.
type Library struct {
	Paths []string `toml:"paths"`
}

// Default returns the built-in configuration.
func Default() *Config {
	rc := route.DefaultConfig()
	return &Config{
		Routing: Routing{
			StubLength: rc.StubLength,
			LaneGap:    rc.LaneGap,
			Clearance:  rc.Clearance,
		},
		Canvas: Canvas{
			GridSize: 8,
			Snap:     true,
		},
		Autosave: Autosave{
			Enabled:  true,
			Interval: "30s",
			Keep:     20,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "patchbay", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults.
// An empty path uses [DefaultPath]. A missing file is not an error;
// the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the editor cannot work with.
func (c *Config) Validate() error {
	if c.Routing.StubLength <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "routing.stub_length must be positive")
	}
	if c.Routing.LaneGap <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "routing.lane_gap must be positive")
	}
	if c.Routing.Clearance <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "routing.clearance must be positive")
	}
	if c.Canvas.GridSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.grid_size must be positive")
	}
	if c.Autosave.Keep < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "autosave.keep must be at least 1")
	}
	if _, err := time.ParseDuration(c.Autosave.Interval); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "autosave.interval is not a duration")
	}
	return nil
}

// RouteConfig converts the routing section to a router configuration.
func (c *Config) RouteConfig() route.Config {
	return route.Config{
		StubLength: c.Routing.StubLength,
		LaneGap:    c.Routing.LaneGap,
		Clearance:  c.Routing.Clearance,
	}
}

// AutosaveInterval returns the parsed autosave interval.
// Call [Config.Validate] first; an unparsable interval falls back to 30s.
func (c *Config) AutosaveInterval() time.Duration {
	d, err := time.ParseDuration(c.Autosave.Interval)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
