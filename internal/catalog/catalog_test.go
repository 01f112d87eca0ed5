// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog_test

import (
	"testing"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookupAndIterate(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()
	require.Equal(t, 4, cat.Len())

	pkg, err := cat.Lookup("emacs")
	require.NoError(t, err)
	assert.Equal(t, "editors", pkg.Section)

	_, err = cat.Lookup("missing")
	require.ErrorIs(t, err, catalog.ErrUnknownPackage)

	var names []string

	cat.Iterate(func(e catalog.Entry) bool {
		names = append(names, e.Pkg.Name)

		return true
	})

	assert.Equal(t, []string{"emacs", "libssl", "nginx", "zsh"}, names,
		"iteration is name ordered")
}

func TestCatalogIterateEarlyStop(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()
	count := 0

	cat.Iterate(func(catalog.Entry) bool {
		count++

		return count < 2
	})

	assert.Equal(t, 2, count)
}

func TestCatalogEntryDisplayVersion(t *testing.T) {
	t.Parallel()

	upgradable := testutil.UpgradablePackage("libssl", "libs", "3.0.1", "3.0.2")
	assert.Equal(t, "3.0.1", upgradable.DisplayVersion().Number,
		"installed version wins over candidate")

	available := testutil.AvailablePackage("zsh", "shells", "5.9")
	assert.Equal(t, "5.9", available.DisplayVersion().Number)

	virtual := testutil.VirtualPackage("mail-agent", "mail")
	assert.Nil(t, virtual.DisplayVersion())

	entry := catalog.Entry{Pkg: upgradable}
	assert.False(t, entry.VersionSpecific())
	assert.Equal(t, "libssl", entry.IndexKey())
}

func TestCatalogSetSelectionBatchesChanges(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()

	var batches []catalog.ChangeSet

	cat.OnChange(func(changed catalog.ChangeSet) { batches = append(batches, changed) })

	emacs, err := cat.Lookup("emacs")
	require.NoError(t, err)
	zsh, err := cat.Lookup("zsh")
	require.NoError(t, err)

	prev, err := cat.SetSelection(emacs, catalog.Selection{State: catalog.SelectedRemove})
	require.NoError(t, err)
	assert.Equal(t, catalog.SelectedNone, prev.State)

	_, err = cat.SetSelection(zsh, catalog.Selection{State: catalog.SelectedInstall})
	require.NoError(t, err)

	require.Empty(t, batches, "nothing is delivered before Flush")

	cat.Flush()
	require.Len(t, batches, 1, "one flush, one batch")
	require.Len(t, batches[0], 2)
	assert.Equal(t, "emacs", batches[0][0].Name)
	assert.Equal(t, "zsh", batches[0][1].Name)

	cat.Flush()
	assert.Len(t, batches, 1, "empty flush delivers nothing")
}

func TestCatalogSubscriberAddedDuringFlush(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()
	emacs, err := cat.Lookup("emacs")
	require.NoError(t, err)

	// Delivery iterates a snapshot of the subscriber list outside the lock,
	// so a callback may register further subscribers without deadlocking.
	lateCalls := 0

	cat.OnChange(func(catalog.ChangeSet) {
		cat.OnChange(func(catalog.ChangeSet) { lateCalls++ })
	})

	_, err = cat.SetSelection(emacs, catalog.Selection{State: catalog.SelectedRemove})
	require.NoError(t, err)
	cat.Flush()

	assert.Zero(t, lateCalls, "a subscriber added mid-flush misses that flush")

	_, err = cat.SetSelection(emacs, catalog.Selection{})
	require.NoError(t, err)
	cat.Flush()

	assert.Equal(t, 1, lateCalls)
}

func TestCatalogEntriesArePackageWide(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()

	entry, err := cat.Entry("libssl")
	require.NoError(t, err)
	assert.False(t, entry.VersionSpecific(), "lookup entries carry no version decision")

	cat.Iterate(func(e catalog.Entry) bool {
		assert.False(t, e.VersionSpecific(), "bulk entry %s must be versionless", e.Pkg.Name)

		return true
	})
}

func TestCatalogSetSelectionRejectsForeignVersion(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()
	emacs, err := cat.Lookup("emacs")
	require.NoError(t, err)

	_, err = cat.SetSelection(emacs, catalog.Selection{
		State:   catalog.SelectedInstall,
		Version: &catalog.Version{Number: "9.9"},
	})
	require.ErrorIs(t, err, catalog.ErrForeignVersion)
	assert.Equal(t, catalog.SelectedNone, emacs.Selection().State)
}

func TestCatalogReloadNotifies(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()
	reloaded := false
	cat.OnReload(func() { reloaded = true })

	cat.Reload([]*catalog.Package{testutil.InstalledPackage("delta", "admin", "3")})

	assert.True(t, reloaded)
	assert.Equal(t, 1, cat.Len())

	_, err := cat.Lookup("emacs")
	assert.ErrorIs(t, err, catalog.ErrUnknownPackage)
}

func TestCatalogCloseNotifies(t *testing.T) {
	t.Parallel()

	cat := testutil.SampleCatalog()
	closed := false
	cat.OnClose(func() { closed = true })

	cat.Close()

	assert.True(t, closed)
	assert.Zero(t, cat.Len())
}

func TestStateStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "installed", catalog.StateInstalled.String())
	assert.Equal(t, "not installed", catalog.StateNotInstalled.String())
	assert.Equal(t, "broken", catalog.StateBroken.String())
	assert.Equal(t, "virtual", catalog.StateVirtual.String())

	assert.Equal(t, "purge", catalog.SelectedPurge.String())
	assert.Empty(t, catalog.SelectedNone.String())
}
