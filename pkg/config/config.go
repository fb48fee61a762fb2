// Package config loads pathview settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full settings tree. Zero values fall back to defaults via
// Normalize.
type Config struct {
	// DebounceMs is the coalescing window for continuous depth input.
	DebounceMs int `yaml:"debounce_ms"`
	// DefaultDepth is the initial truncation depth; 0 means full depth.
	DefaultDepth int `yaml:"default_depth"`
	// AutoRecalculate controls whether depth changes recalculate
	// immediately.
	AutoRecalculate *bool `yaml:"auto_recalculate"`

	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Export     ExportConfig     `yaml:"export"`
	Persist    PersistConfig    `yaml:"persist"`
}

// VocabularyConfig overrides the strategy keyword lists. Empty lists keep
// the built-in vocabularies.
type VocabularyConfig struct {
	Demand     []string `yaml:"demand"`
	Innovation []string `yaml:"innovation"`
}

// ExportConfig sizes snapshot output.
type ExportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PersistConfig locates the saved-trees database.
type PersistConfig struct {
	DBPath string `yaml:"db_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	auto := true
	return Config{
		DebounceMs:      250,
		AutoRecalculate: &auto,
		Export:          ExportConfig{Width: 800, Height: 600},
		Persist:         PersistConfig{DBPath: defaultDBPath()},
	}
}

// Load reads the YAML file at path, layered over the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills zero values with defaults and clamps nonsense.
func (c *Config) Normalize() {
	if c.DebounceMs <= 0 {
		c.DebounceMs = 250
	}
	if c.DefaultDepth < 0 {
		c.DefaultDepth = 0
	}
	if c.AutoRecalculate == nil {
		auto := true
		c.AutoRecalculate = &auto
	}
	if c.Export.Width <= 0 {
		c.Export.Width = 800
	}
	if c.Export.Height <= 0 {
		c.Export.Height = 600
	}
	if c.Persist.DBPath == "" {
		c.Persist.DBPath = defaultDBPath()
	}
}

// DebounceWindow returns the debounce setting as a duration.
func (c Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pathview/pathview.db"
	}
	return home + "/.pathview/pathview.db"
}
