package bough

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options configures a Manager. The zero value is not useful; start from
// DefaultOptions or LoadOptions.
type Options struct {
	// Capacity preallocates storage for this many slots.
	Capacity int `toml:"capacity" yaml:"capacity"`

	// Debug enables per-frame stats logging and tree shape warnings.
	Debug bool `toml:"debug" yaml:"debug"`

	// MaxTreeDepth and MaxChildren are the debug warning thresholds.
	MaxTreeDepth int `toml:"max_tree_depth" yaml:"max_tree_depth"`
	MaxChildren  int `toml:"max_children" yaml:"max_children"`

	Logger *zap.Logger `toml:"-" yaml:"-"`
}

// Option mutates Options during NewManager.
type Option func(*Options)

const (
	defaultCapacity     = 1024
	defaultMaxTreeDepth = 32
	defaultMaxChildren  = 1000
)

// DefaultOptions returns the options NewManager uses when none are given.
func DefaultOptions() Options {
	return Options{
		Capacity:     defaultCapacity,
		MaxTreeDepth: defaultMaxTreeDepth,
		MaxChildren:  defaultMaxChildren,
	}
}

// LoadOptions reads options from a .toml, .yaml or .yml file. Fields missing
// from the file keep their DefaultOptions value.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read options %s: %w", path, err)
	}
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(data, &opts)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &opts)
	default:
		return opts, fmt.Errorf("read options %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return opts, fmt.Errorf("parse options %s: %w", path, err)
	}
	return opts, nil
}

// WithOptions replaces all options at once, e.g. with the result of
// LoadOptions. A nil Logger in o is kept as is.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		logger := dst.Logger
		*dst = o
		if dst.Logger == nil {
			dst.Logger = logger
		}
	}
}

// WithLogger sets the logger used for debug output and warnings.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithDebug toggles debug mode.
func WithDebug(enabled bool) Option {
	return func(o *Options) { o.Debug = enabled }
}

// WithCapacity preallocates storage for n slots.
func WithCapacity(n int) Option {
	return func(o *Options) { o.Capacity = n }
}
