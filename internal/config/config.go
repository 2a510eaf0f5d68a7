// Package config handles stackvis.toml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"stackvis/pkg/view"
	"stackvis/pkg/vm"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "stackvis.toml"

// Config represents a stackvis.toml file.
type Config struct {
	Run     Run     `toml:"run"`
	Display Display `toml:"display"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Run configures how the machine is driven.
type Run struct {
	Interval     string `toml:"interval"`
	MaxSteps     int    `toml:"max_steps"`
	MaxCallDepth int    `toml:"max_call_depth"`
}

// Display configures terminal output.
type Display struct {
	Color  bool `toml:"color"`
	Panels bool `toml:"panels"`
	Window int  `toml:"window"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Run: Run{
			Interval:     "100ms",
			MaxCallDepth: vm.DefaultMaxCallDepth,
		},
		Display: Display{
			Color:  true,
			Panels: true,
			Window: view.DefaultWindow,
		},
	}
}

// Load parses a configuration file. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	for _, key := range md.Undecoded() {
		log.Warn("Unknown configuration key", "file", path, "key", key.String())
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	c.Path = path
	return c, nil
}

// FindAndLoad walks up from startDir looking for stackvis.toml. Defaults
// are returned when no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if _, err := c.IntervalDuration(); err != nil {
		return err
	}
	if c.Run.MaxSteps < 0 {
		return fmt.Errorf("run.max_steps must not be negative, got %d", c.Run.MaxSteps)
	}
	if c.Run.MaxCallDepth < 0 {
		return fmt.Errorf("run.max_call_depth must not be negative, got %d", c.Run.MaxCallDepth)
	}
	if c.Display.Window < 0 {
		return fmt.Errorf("display.window must not be negative, got %d", c.Display.Window)
	}
	return nil
}

// IntervalDuration parses run.interval
func (c *Config) IntervalDuration() (time.Duration, error) {
	if c.Run.Interval == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Run.Interval)
	if err != nil {
		return 0, fmt.Errorf("run.interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("run.interval must not be negative, got %s", d)
	}
	return d, nil
}
