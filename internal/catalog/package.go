// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog models the package database this front-end lists: packages,
// their versions, their current install state, and the pending selection the
// user has made for each. The catalog owns all package data; list models only
// hold references into it.
package catalog

import (
	"errors"
	"sync"
)

var (
	// ErrUnknownPackage is returned when a package name is not in the catalog.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrNotInstalled is returned when removal is requested for a package
	// that is not installed.
	ErrNotInstalled = errors.New("package is not installed")
	// ErrPinned is returned when a state change conflicts with a pin.
	ErrPinned = errors.New("package is pinned")
	// ErrForeignVersion is returned when a version does not belong to the
	// package it was paired with.
	ErrForeignVersion = errors.New("version does not belong to package")
)

// CurrentState describes the on-system state of a package.
type CurrentState int

// On-system package states.
const (
	StateNotInstalled CurrentState = iota
	StateInstalled
	StateBroken
	StateVirtual
)

// String returns the display text for the state.
func (s CurrentState) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateBroken:
		return "broken"
	case StateVirtual:
		return "virtual"
	case StateNotInstalled:
		return "not installed"
	default:
		return "unknown"
	}
}

// SelectedState describes the pending action selected for a package.
type SelectedState int

// Pending selection states. SelectedNone means keep the package as it is.
const (
	SelectedNone SelectedState = iota
	SelectedInstall
	SelectedRemove
	SelectedPurge
	SelectedHold
)

// String returns the display text for the selection, empty for no change.
func (s SelectedState) String() string {
	switch s {
	case SelectedInstall:
		return "install"
	case SelectedRemove:
		return "remove"
	case SelectedPurge:
		return "purge"
	case SelectedHold:
		return "hold"
	case SelectedNone:
		return ""
	default:
		return ""
	}
}

// Version is one available version of a package.
type Version struct {
	Number string
}

// Selection is the pending action for a package, optionally targeting one
// specific version (a version decision).
type Selection struct {
	State   SelectedState
	Version *Version
}

// Package is one catalog record. Instances are owned by the Catalog and have
// stable identity (pointer and name) for the lifetime of a loaded catalog.
type Package struct {
	Name      string
	Section   string
	Versions  []*Version
	Installed *Version // nil when not installed
	Candidate *Version // nil when no installable version exists
	State     CurrentState
	Pinned    bool

	selMu     sync.RWMutex
	selection Selection
}

// Selection returns the package's pending selection. The read is guarded so
// a build worker may format rows while the interactive goroutine mutates
// selections.
func (p *Package) Selection() Selection {
	p.selMu.RLock()
	defer p.selMu.RUnlock()

	return p.selection
}

// setSelection swaps the pending selection and returns the previous one.
// Selection writes go through Catalog.SetSelection, which validates first.
func (p *Package) setSelection(sel Selection) Selection {
	p.selMu.Lock()
	defer p.selMu.Unlock()

	prev := p.selection
	p.selection = sel

	return prev
}

// Upgradable reports whether a newer candidate than the installed version
// exists.
func (p *Package) Upgradable() bool {
	return p.Installed != nil && p.Candidate != nil && p.Candidate.Number != p.Installed.Number
}

// DisplayVersion returns the version a package-wide row shows: the installed
// version when present, otherwise the candidate. Nil for virtual packages.
func (p *Package) DisplayVersion() *Version {
	if p.Installed != nil {
		return p.Installed
	}

	return p.Candidate
}

// HasVersion reports whether ver is one of the package's own versions.
func (p *Package) HasVersion(ver *Version) bool {
	for _, v := range p.Versions {
		if v == ver {
			return true
		}
	}

	return false
}

// Entry is one listable unit: a package, optionally narrowed to a specific
// version. A nil Ver is a package-wide (versionless) entry.
type Entry struct {
	Pkg *Package
	Ver *Version
}

// Valid reports whether the entry references a package.
func (e Entry) Valid() bool {
	return e.Pkg != nil
}

// VersionSpecific reports whether the entry pins one concrete version.
func (e Entry) VersionSpecific() bool {
	return e.Ver != nil
}

// IndexKey returns the stable identity used for reverse-index lookup. Rows
// are indexed by package, so every row of a package, version-specific or not,
// is reachable from one key.
func (e Entry) IndexKey() string {
	if e.Pkg == nil {
		return ""
	}

	return e.Pkg.Name
}
