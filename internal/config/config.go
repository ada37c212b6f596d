// Package config loads boughbench configuration from TOML or YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/phanxgames/bough"
	"gopkg.in/yaml.v3"
)

// Config is the top-level boughbench configuration.
type Config struct {
	Engine  bough.Options `toml:"engine" yaml:"engine"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Bench   BenchConfig   `toml:"bench" yaml:"bench"`
}

// LoggingConfig selects the engine logger level and encoding.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// BenchConfig describes the synthetic scene and frame loop.
type BenchConfig struct {
	Nodes     int     `toml:"nodes" yaml:"nodes"`
	Frames    int     `toml:"frames" yaml:"frames"`
	DirtyRate float64 `toml:"dirty_rate" yaml:"dirty_rate"` // fraction of nodes touched per frame (0.0-1.0)
	Reparents int     `toml:"reparents" yaml:"reparents"`   // random reparent operations per frame
	Seed      uint64  `toml:"seed" yaml:"seed"`
	Mode      string  `toml:"mode" yaml:"mode"` // "manager" or "ecs"
	ScriptDir string  `toml:"script_dir" yaml:"script_dir"`
	Verify    bool    `toml:"verify" yaml:"verify"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: bough.DefaultOptions(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Bench: BenchConfig{
			Nodes:     10000,
			Frames:    120,
			DirtyRate: 0.1,
			Seed:      1,
			Mode:      "manager",
			Verify:    true,
		},
	}
}

// Load reads a .toml, .yaml or .yml file over Default and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("read config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the benchmark cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Bench.Nodes <= 0:
		return fmt.Errorf("bench.nodes must be positive, got %d", c.Bench.Nodes)
	case c.Bench.Frames < 0:
		return fmt.Errorf("bench.frames must not be negative, got %d", c.Bench.Frames)
	case c.Bench.DirtyRate < 0 || c.Bench.DirtyRate > 1:
		return fmt.Errorf("bench.dirty_rate must be within [0, 1], got %g", c.Bench.DirtyRate)
	case c.Bench.Mode != "manager" && c.Bench.Mode != "ecs":
		return fmt.Errorf("bench.mode must be \"manager\" or \"ecs\", got %q", c.Bench.Mode)
	}
	return nil
}
