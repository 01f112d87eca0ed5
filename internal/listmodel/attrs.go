// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package listmodel builds and maintains the displayable list representation
// of a package catalog: row formatting, list-store generation off the
// interactive goroutine, a reverse index from catalog entries to rows for
// incremental refresh, and bulk action dispatch over selections.
package listmodel

import (
	"errors"
	"fmt"

	"github.com/janderssonse/pkgview/internal/catalog"
)

var (
	// ErrInvalidEntry is returned when a row is requested for an entry with
	// no package.
	ErrInvalidEntry = errors.New("entry has no package")
	// ErrForeignVersion is returned when an entry pairs a package with a
	// version that is not one of its own.
	ErrForeignVersion = errors.New("entry version does not belong to its package")
)

// Highlight colors for rows whose pending selection diverges from their
// current state.
const (
	HighlightInstall = "#9ece6a"
	HighlightRemove  = "#e0af68"
	HighlightPurge   = "#f7768e"
	HighlightHold    = "#7dcfff"
	HighlightBroken  = "#f7768e"
)

// RowAttributes holds the display values computed for one row.
type RowAttributes struct {
	Name          string
	Section       string
	Version       string
	CurrentState  string
	SelectedState string
	Highlight     string
	HighlightSet  bool
}

// Formatter computes display attributes for catalog entries. It reads catalog
// state but never mutates it.
type Formatter struct{}

// NewFormatter creates a formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FillRow computes the attributes for an entry's row. Version-specific rows
// show the entry's version and may carry a version-decision suffix on the
// selected state; package-wide rows never do.
func (f *Formatter) FillRow(entry catalog.Entry, versionSpecific bool) (RowAttributes, error) {
	if !entry.Valid() {
		return RowAttributes{}, ErrInvalidEntry
	}

	pkg := entry.Pkg
	if entry.Ver != nil && !pkg.HasVersion(entry.Ver) {
		return RowAttributes{}, fmt.Errorf("%w: %s", ErrForeignVersion, pkg.Name)
	}

	attrs := RowAttributes{
		Name:         pkg.Name,
		Section:      pkg.Section,
		CurrentState: pkg.State.String(),
	}

	if versionSpecific && entry.Ver != nil {
		attrs.Version = entry.Ver.Number
	} else if ver := pkg.DisplayVersion(); ver != nil {
		attrs.Version = ver.Number
	}

	sel := pkg.Selection()
	attrs.SelectedState = sel.State.String()

	if versionSpecific && sel.Version != nil && sel.Version == entry.Ver {
		attrs.SelectedState = fmt.Sprintf("%s (%s)", sel.State, sel.Version.Number)
	}

	attrs.Highlight, attrs.HighlightSet = highlightFor(pkg.State, sel.State)

	return attrs, nil
}

// FillHeader computes the attributes for a grouping header row.
func (f *Formatter) FillHeader(text string) RowAttributes {
	return RowAttributes{Name: text}
}

// highlightFor picks the row highlight. A pending selection always marks the
// row; a broken package is marked even with no selection.
func highlightFor(state catalog.CurrentState, sel catalog.SelectedState) (string, bool) {
	switch sel {
	case catalog.SelectedInstall:
		return HighlightInstall, true
	case catalog.SelectedRemove:
		return HighlightRemove, true
	case catalog.SelectedPurge:
		return HighlightPurge, true
	case catalog.SelectedHold:
		return HighlightHold, true
	case catalog.SelectedNone:
	}

	if state == catalog.StateBroken {
		return HighlightBroken, true
	}

	return "", false
}
