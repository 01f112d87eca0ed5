// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel_test

import (
	"testing"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/listmodel"
	"github.com/janderssonse/pkgview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioCatalog is the three-package catalog of the core scenario:
// alpha installed v1, bravo not installed, charlie installed v2 and held.
func scenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	alpha := testutil.InstalledPackage("alpha", "admin", "1")
	bravo := testutil.AvailablePackage("bravo", "admin", "1")
	charlie := testutil.InstalledPackage("charlie", "admin", "2")

	cat := catalog.New(alpha, bravo, charlie)
	_, err := cat.SetSelection(charlie, catalog.Selection{State: catalog.SelectedHold})
	require.NoError(t, err)
	cat.Flush()

	return cat
}

func TestViewStateMachine(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	assert.Equal(t, listmodel.ViewEmpty, view.State())
	assert.Nil(t, view.Store())

	require.NoError(t, view.Relimit("installed"))
	assert.Equal(t, listmodel.ViewBuilding, view.State())

	buildNow(t, view)
	assert.Equal(t, listmodel.ViewLive, view.State())
	require.NotNil(t, view.Store())

	// Relimit from Live keeps the old store published until the swap.
	old := view.Store()

	require.NoError(t, view.Relimit("all"))
	assert.Equal(t, listmodel.ViewBuilding, view.State())
	assert.Same(t, old, view.Store(), "old store stays live while building")

	buildNow(t, view)
	assert.Equal(t, listmodel.ViewLive, view.State())
	assert.NotSame(t, old, view.Store())
	assert.Equal(t, 3, view.Store().Len())
}

func TestViewBuildScenarioInstalledLimit(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	store := view.Store()
	require.Equal(t, []string{"alpha", "charlie"}, storeNames(store))

	idx := view.Index()
	require.Len(t, idx.Rows("alpha"), 1)
	require.Len(t, idx.Rows("charlie"), 1)

	pos, ok := store.Index(idx.Rows("alpha")[0])
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	pos, ok = store.Index(idx.Rows("charlie")[0])
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestViewRefreshInsertsEnteringEntry(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	alphaRow := view.Index().Rows("alpha")[0]
	charlieRow := view.Index().Rows("charlie")[0]

	// bravo becomes installed and enters the limit.
	bravo, err := cat.Lookup("bravo")
	require.NoError(t, err)
	bravo.Installed = bravo.Candidate
	bravo.State = catalog.StateInstalled

	view.Refresh(catalog.ChangeSet{bravo})

	store := view.Store()
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, storeNames(store))
	assert.Same(t, alphaRow, view.Index().Rows("alpha")[0], "unrelated rows unchanged")
	assert.Same(t, charlieRow, view.Index().Rows("charlie")[0])
	requireIndexInvariant(t, store, view.Index())
}

func TestViewRefreshRemovesLeavingEntry(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	alpha, err := cat.Lookup("alpha")
	require.NoError(t, err)
	alpha.Installed = nil
	alpha.State = catalog.StateNotInstalled

	view.Refresh(catalog.ChangeSet{alpha})

	assert.Equal(t, []string{"charlie"}, storeNames(view.Store()))
	assert.False(t, view.Index().Contains("alpha"), "no dangling index entries")
	requireIndexInvariant(t, view.Store(), view.Index())
}

func TestViewRefreshUpdatesAttributesInPlace(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	row := view.Index().Rows("alpha")[0]
	require.Empty(t, row.Attrs.SelectedState)

	alpha, err := cat.Lookup("alpha")
	require.NoError(t, err)
	_, err = cat.SetSelection(alpha, catalog.Selection{State: catalog.SelectedRemove})
	require.NoError(t, err)

	// Flush delivers the change set; the subscribed view patches itself.
	cat.Flush()

	assert.Same(t, row, view.Index().Rows("alpha")[0], "row identity preserved")
	assert.Equal(t, "remove", row.Attrs.SelectedState)
	assert.Equal(t, []string{"alpha", "charlie"}, storeNames(view.Store()))
}

func TestViewRefreshMovesRowAcrossStatusGroups(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewStatusGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	require.Equal(t, []string{
		"#Held", "charlie",
		"#Unchanged", "alpha",
	}, storeNames(view.Store()))

	alpha, err := cat.Lookup("alpha")
	require.NoError(t, err)
	_, err = cat.SetSelection(alpha, catalog.Selection{State: catalog.SelectedPurge})
	require.NoError(t, err)
	cat.Flush()

	// alpha moved to a fresh "To purge" group; its empty old group's header
	// is pruned.
	assert.Equal(t, []string{
		"#To purge", "alpha",
		"#Held", "charlie",
	}, storeNames(view.Store()))
	requireIndexInvariant(t, view.Store(), view.Index())
}

func TestViewRefreshEquivalentToRebuild(t *testing.T) {
	t.Parallel()

	cat := testutil.WideCatalog(60)
	view := listmodel.NewView(cat, listmodel.NewSectionGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	// Mutate a handful of packages: one leaves the limit, one enters, one
	// changes attributes only.
	var changed catalog.ChangeSet

	leave, err := cat.Lookup("pkg-0000")
	require.NoError(t, err)
	leave.Installed = nil
	leave.State = catalog.StateNotInstalled
	changed = append(changed, leave)

	enter, err := cat.Lookup("pkg-0001")
	require.NoError(t, err)
	enter.Installed = enter.Candidate
	enter.State = catalog.StateInstalled
	changed = append(changed, enter)

	mark, err := cat.Lookup("pkg-0002")
	require.NoError(t, err)
	_, err = cat.SetSelection(mark, catalog.Selection{State: catalog.SelectedRemove})
	require.NoError(t, err)
	changed = append(changed, mark)

	view.Refresh(changed)
	patched := storeNames(view.Store())
	requireIndexInvariant(t, view.Store(), view.Index())

	// A from-scratch rebuild with the same limit must agree.
	rebuilt := listmodel.NewView(cat, listmodel.NewSectionGenerator, nil)
	require.NoError(t, rebuilt.Relimit("installed"))
	buildNow(t, rebuilt)

	assert.Equal(t, storeNames(rebuilt.Store()), patched)
}

func TestViewRefreshNoopCases(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	// No live store yet: nothing to patch.
	view.Refresh(catalog.ChangeSet{})

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	before := storeNames(view.Store())
	view.Refresh(nil)
	assert.Equal(t, before, storeNames(view.Store()))
}

func TestViewRefreshDuringRelimitUsesLiveLimit(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)
	require.Equal(t, []string{"alpha", "charlie"}, storeNames(view.Store()))

	// A new limit is requested but its build has not landed yet.
	require.NoError(t, view.Relimit("notinstalled"))

	alpha, err := cat.Lookup("alpha")
	require.NoError(t, err)
	_, err = cat.SetSelection(alpha, catalog.Selection{State: catalog.SelectedRemove})
	require.NoError(t, err)
	cat.Flush()

	// alpha fails the pending limit but passes the live one: the old store
	// must keep it, patched in place, until the new build publishes.
	assert.Equal(t, []string{"alpha", "charlie"}, storeNames(view.Store()))
	assert.Equal(t, "remove", view.Store().At(0).Attrs.SelectedState)

	buildNow(t, view)
	assert.Equal(t, []string{"bravo"}, storeNames(view.Store()))
}

func TestViewRelimitSupersedesOutstandingBuild(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))

	stale := view.Building()
	require.NotNil(t, stale)

	// A newer relimit arrives before the first build lands.
	require.NoError(t, view.Relimit("all"))
	require.NotSame(t, stale, view.Building())

	// The stale result must be discarded silently.
	swapped := view.Complete(stale, listmodel.BuildResult{
		Store: listmodel.NewStore(),
		Index: listmodel.NewReverseIndex(),
	})
	assert.False(t, swapped)
	assert.Equal(t, listmodel.ViewBuilding, view.State())

	buildNow(t, view)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, storeNames(view.Store()))
}

func TestViewShowSingle(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	bravo, err := cat.Lookup("bravo")
	require.NoError(t, err)

	view.ShowSingle(catalog.Entry{Pkg: bravo})
	buildNow(t, view)

	require.Equal(t, 1, view.Store().Len())
	assert.Equal(t, "bravo", view.Store().At(0).Attrs.Name)
	assert.Equal(t, []string{"bravo"}, view.Index().Keys())
}

func TestViewCatalogReloadRebuilds(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	cat.Reload([]*catalog.Package{
		testutil.InstalledPackage("alpha", "admin", "1"),
		testutil.InstalledPackage("delta", "admin", "3"),
	})

	assert.Equal(t, listmodel.ViewBuilding, view.State(), "reload restarts the build")
	buildNow(t, view)
	assert.Equal(t, []string{"alpha", "delta"}, storeNames(view.Store()))
}

func TestViewCatalogCloseEmptiesView(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewFlatGenerator, nil)

	require.NoError(t, view.Relimit("installed"))
	buildNow(t, view)

	cat.Close()

	assert.Equal(t, listmodel.ViewEmpty, view.State())
	assert.Nil(t, view.Store())
	assert.Nil(t, view.Index())
}

func TestViewSelectionEventsResolveEntries(t *testing.T) {
	t.Parallel()

	cat := scenarioCatalog(t)
	view := listmodel.NewView(cat, listmodel.NewSectionGenerator, nil)

	require.NoError(t, view.Relimit("all"))
	buildNow(t, view)

	var selected []catalog.Entry

	view.SetOnSelection(func(entries []catalog.Entry) { selected = entries })
	view.SelectionChanged(view.Store().Rows())

	names := make([]string, 0, len(selected))
	for _, entry := range selected {
		names = append(names, entry.Pkg.Name)
	}

	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names,
		"headers resolve to nothing")

	var activated catalog.Entry

	view.SetOnActivate(func(entry catalog.Entry) { activated = entry })
	view.Activate(view.Store().At(0))
	assert.False(t, activated.Valid(), "header activation is ignored")

	view.Activate(view.Store().At(1))
	assert.Equal(t, "alpha", activated.Pkg.Name)

	var menu listmodel.ContextMenuEvent

	view.SetOnContextMenu(func(event listmodel.ContextMenuEvent) { menu = event })
	view.ContextMenu(view.Store().Rows())

	assert.Len(t, menu.Entries, 3)
	assert.Contains(t, menu.Actions, listmodel.ActionInstall)
	assert.Contains(t, menu.Actions, listmodel.ActionRemove)
}
