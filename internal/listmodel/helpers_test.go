// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel_test

import (
	"testing"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/listmodel"
	"github.com/janderssonse/pkgview/internal/testutil"
	"github.com/stretchr/testify/require"
)

// entryFor builds a standalone installed entry for index tests.
func entryFor(t *testing.T, name string) catalog.Entry {
	t.Helper()

	pkg := testutil.InstalledPackage(name, "misc", "1.0")

	return catalog.Entry{Pkg: pkg, Ver: pkg.Installed}
}

// storeNames flattens a store into row names, prefixing headers with "#".
func storeNames(store *listmodel.Store) []string {
	names := make([]string, 0, store.Len())

	for _, row := range store.Rows() {
		if row.IsHeader() {
			names = append(names, "#"+row.Attrs.Name)
		} else {
			names = append(names, row.Attrs.Name)
		}
	}

	return names
}

// buildNow runs a bulk build to completion and returns its result.
func buildNow(t *testing.T, view *listmodel.View) listmodel.BuildResult {
	t.Helper()

	build := view.Building()
	require.NotNil(t, build, "a build must be in flight")

	result := <-build.Done()
	require.True(t, view.Complete(build, result), "completion must swap the store in")

	return result
}

// requireIndexInvariant checks the store/index pairing both ways: every
// non-header row has exactly one index entry, and every index entry points
// at a row present in the store.
func requireIndexInvariant(t *testing.T, store *listmodel.Store, idx *listmodel.ReverseIndex) {
	t.Helper()

	entryRows := 0

	for _, row := range store.Rows() {
		if row.IsHeader() {
			continue
		}

		entryRows++

		indexed := false

		for _, candidate := range idx.Rows(row.Entry.IndexKey()) {
			if candidate == row {
				indexed = true

				break
			}
		}

		require.True(t, indexed, "row %q missing from reverse index", row.Attrs.Name)
	}

	require.Equal(t, entryRows, idx.Len(), "index must hold exactly one entry per row")

	for _, key := range idx.Keys() {
		for _, row := range idx.Rows(key) {
			_, present := store.Index(row)
			require.True(t, present, "index entry %q dangles", key)
		}
	}
}
