// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janderssonse/pkgview/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "all", cfg.DefaultLimit)
	assert.Equal(t, config.GroupingFlat, cfg.Grouping)
	assert.False(t, cfg.NoColor)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pkgview.toml")
	cfg := &config.Config{
		DefaultLimit: "installed",
		Grouping:     config.GroupingSections,
		NoColor:      true,
	}

	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsUnknownGrouping(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pkgview.toml")
	require.NoError(t, os.WriteFile(path, []byte(`grouping = "spiral"`), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrUnknownGrouping)
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pkgview.toml")
	err := config.Save(path, &config.Config{Grouping: "spiral"})
	require.ErrorIs(t, err, config.ErrUnknownGrouping)
}

func TestGetXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config", config.GetXDGConfigHome())

	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, config.DefaultPath(), filepath.Join("pkgview", "pkgview.toml"))
}
