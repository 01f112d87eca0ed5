// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads and saves the pkgview configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownGrouping is returned when the configured grouping mode is not
// one of the known generator variants.
var ErrUnknownGrouping = errors.New("unknown grouping mode")

// Grouping modes selectable in configuration.
const (
	GroupingFlat     = "flat"
	GroupingSections = "sections"
	GroupingStatus   = "status"
)

// Config is the persisted user configuration.
type Config struct {
	// DefaultLimit is the limit applied when a view opens.
	DefaultLimit string `toml:"default_limit"`
	// Grouping selects the list variant: flat, sections, or status.
	Grouping string `toml:"grouping"`
	// NoColor disables row highlighting in the TUI.
	NoColor bool `toml:"no_color"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultLimit: "all",
		Grouping:     GroupingFlat,
	}
}

// Validate checks field values that have a closed set.
func (c *Config) Validate() error {
	switch c.Grouping {
	case GroupingFlat, GroupingSections, GroupingStatus:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGrouping, c.Grouping)
	}
}

// GetXDGConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func GetXDGConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".config"
	}

	return filepath.Join(home, ".config")
}

// DefaultPath returns the configuration file path.
func DefaultPath() string {
	return filepath.Join(GetXDGConfigHome(), "pkgview", "pkgview.toml")
}

// Load reads the configuration from path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories. The
// write is guarded by a sidecar file lock so concurrent instances do not
// interleave.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}

	defer func() { _ = lock.Unlock() }()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
