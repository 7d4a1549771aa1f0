// Package config loads engine configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Errors returned by configuration loading.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the engine configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Editor EditorConfig `toml:"editor"`
}

// RenderConfig configures the render dispatcher and capability.
type RenderConfig struct {
	// BatchThreshold is the batch size at which rendering goes parallel.
	BatchThreshold int `toml:"batch_threshold"`

	// Workers is the worker count for parallel batches; 0 means one per
	// CPU.
	Workers int `toml:"workers"`

	// Highlight enables syntax highlighting of fenced code.
	Highlight bool `toml:"highlight"`

	// ChromaStyle names the highlighting style.
	ChromaStyle string `toml:"chroma_style"`
}

// EditorConfig configures document handling.
type EditorConfig struct {
	// TabWidth is the display width of a tab character.
	TabWidth int `toml:"tab_width"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			BatchThreshold: 50,
			Workers:        0,
			Highlight:      true,
			ChromaStyle:    "github",
		},
		Editor: EditorConfig{
			TabWidth: 4,
		},
	}
}

// Load reads configuration from a TOML file, applying defaults for
// anything unset. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Render.BatchThreshold <= 0 {
		return fmt.Errorf("%w: render.batch_threshold must be positive", ErrInvalidConfig)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers must not be negative", ErrInvalidConfig)
	}
	if c.Editor.TabWidth <= 0 {
		return fmt.Errorf("%w: editor.tab_width must be positive", ErrInvalidConfig)
	}
	return nil
}
