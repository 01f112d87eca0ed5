// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotTOML = `
[[packages]]
name = "emacs"
section = "editors"
versions = ["28.2", "29.1"]
installed = "28.2"
candidate = "29.1"

[[packages]]
name = "zsh"
section = "shells"
versions = ["5.9"]
candidate = "5.9"

[[packages]]
name = "dpkg"
section = "admin"
versions = ["1.21"]
installed = "1.21"
state = "broken"
pinned = true
`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	cat, err := catalog.LoadTOML(writeSnapshot(t, snapshotTOML))
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())

	emacs, err := cat.Lookup("emacs")
	require.NoError(t, err)
	assert.Equal(t, catalog.StateInstalled, emacs.State)
	assert.Equal(t, "28.2", emacs.Installed.Number)
	assert.Equal(t, "29.1", emacs.Candidate.Number)
	assert.True(t, emacs.Upgradable())
	assert.True(t, emacs.HasVersion(emacs.Candidate))

	zsh, err := cat.Lookup("zsh")
	require.NoError(t, err)
	assert.Equal(t, catalog.StateNotInstalled, zsh.State)
	assert.Nil(t, zsh.Installed)

	dpkg, err := cat.Lookup("dpkg")
	require.NoError(t, err)
	assert.Equal(t, catalog.StateBroken, dpkg.State)
	assert.True(t, dpkg.Pinned)
}

func TestLoadTOMLUnlistedVersionStillResolves(t *testing.T) {
	t.Parallel()

	cat, err := catalog.LoadTOML(writeSnapshot(t, `
[[packages]]
name = "stray"
section = "misc"
versions = []
installed = "0.1"
`))
	require.NoError(t, err)

	stray, err := cat.Lookup("stray")
	require.NoError(t, err)
	require.NotNil(t, stray.Installed)
	assert.True(t, stray.HasVersion(stray.Installed))
}

func TestLoadTOMLErrors(t *testing.T) {
	t.Parallel()

	_, err := catalog.LoadTOML(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)

	_, err = catalog.LoadTOML(writeSnapshot(t, "not [valid toml"))
	require.Error(t, err)
}
