// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/undo"
)

// Action is a bulk state-change command applied to a selection.
type Action int

// Bulk actions.
const (
	ActionInstall Action = iota
	ActionRemove
	ActionPurge
	ActionKeep
	ActionHold
)

// ErrUnknownAction is returned when an action name cannot be parsed.
var ErrUnknownAction = errors.New("unknown action")

// String returns the action's command name.
func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionRemove:
		return "remove"
	case ActionPurge:
		return "purge"
	case ActionKeep:
		return "keep"
	case ActionHold:
		return "hold"
	default:
		return "unknown"
	}
}

// ParseAction parses a command name into an Action.
func ParseAction(name string) (Action, error) {
	switch strings.ToLower(name) {
	case "install":
		return ActionInstall, nil
	case "remove":
		return ActionRemove, nil
	case "purge":
		return ActionPurge, nil
	case "keep":
		return ActionKeep, nil
	case "hold":
		return ActionHold, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
}

// ApplicableActions returns the actions valid for at least one of the given
// entries, in menu order.
func ApplicableActions(entries []catalog.Entry) []Action {
	var install, installed, pending bool

	for _, entry := range entries {
		pkg := entry.Pkg
		if pkg.Installed == nil && pkg.Candidate != nil {
			install = true
		}

		if pkg.Upgradable() {
			install = true
		}

		if pkg.Installed != nil {
			installed = true
		}

		if pkg.Selection().State != catalog.SelectedNone {
			pending = true
		}
	}

	actions := make([]Action, 0, 5)

	if install {
		actions = append(actions, ActionInstall)
	}

	if installed {
		actions = append(actions, ActionRemove, ActionPurge, ActionHold)
	}

	if pending {
		actions = append(actions, ActionKeep)
	}

	return actions
}

// DispatchFailure records one selection the action could not be applied to.
type DispatchFailure struct {
	Entry catalog.Entry
	Err   error
}

// DispatchError summarizes the failures of one Apply call. The successful
// part of the selection was still applied.
type DispatchError struct {
	Action   Action
	Failures []DispatchFailure
}

// Error summarizes the failed selections.
func (e *DispatchError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		names = append(names, failure.Entry.Pkg.Name)
	}

	return fmt.Sprintf("%s failed for %d package(s): %s",
		e.Action, len(e.Failures), strings.Join(names, ", "))
}

// Unwrap exposes the per-entry errors for errors.Is matching.
func (e *DispatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		errs = append(errs, failure.Err)
	}

	return errs
}

// Marker applies bulk actions to selections of rows, resolving each row back
// to its catalog entry and grouping all resulting mutations into a single
// undo transaction.
type Marker struct {
	cat     *catalog.Catalog
	history *undo.History
	logger  *slog.Logger
}

// NewMarker creates a marker writing through to the catalog and recording
// undo groups in history. A nil logger falls back to slog.Default.
func NewMarker(cat *catalog.Catalog, history *undo.History, logger *slog.Logger) *Marker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Marker{cat: cat, history: history, logger: logger}
}

// Apply translates the action into a selection-state mutation for every
// resolvable row: version-specific when the row is version-specific,
// package-wide otherwise. Header rows are skipped silently. Entries the
// action cannot apply to are collected into a DispatchError while the rest
// of the selection is still applied. All mutations are recorded as one undo
// group and delivered to the catalog's subscribers as one change set.
// It returns the number of mutations applied.
func (m *Marker) Apply(action Action, rows []*Row) (int, error) {
	group := undo.NewGroup()

	var failures []DispatchFailure

	for _, entry := range ResolveRows(rows) {
		sel, err := selectionFor(action, entry)
		if err != nil {
			failures = append(failures, DispatchFailure{Entry: entry, Err: err})
			m.logger.Debug("action not applicable",
				"action", action.String(), "package", entry.Pkg.Name, "error", err)

			continue
		}

		prev, err := m.cat.SetSelection(entry.Pkg, sel)
		if err != nil {
			failures = append(failures, DispatchFailure{Entry: entry, Err: err})

			continue
		}

		group.Add(&selectionItem{cat: m.cat, pkg: entry.Pkg, previous: prev, applied: sel})
	}

	applied := group.Len()
	m.history.Record(group)
	m.cat.Flush()

	if len(failures) > 0 {
		return applied, &DispatchError{Action: action, Failures: failures}
	}

	return applied, nil
}

// Undo reverts the most recent apply and delivers the resulting catalog
// changes. It reports whether anything was undone.
func (m *Marker) Undo() bool {
	if !m.history.Undo() {
		return false
	}

	m.cat.Flush()

	return true
}

// Redo replays the most recently undone apply. It reports whether anything
// was redone.
func (m *Marker) Redo() bool {
	if !m.history.Redo() {
		return false
	}

	m.cat.Flush()

	return true
}

// selectionFor maps an action onto the pending selection it sets for the
// entry, validating that the action applies.
func selectionFor(action Action, entry catalog.Entry) (catalog.Selection, error) {
	pkg := entry.Pkg

	switch action {
	case ActionInstall:
		if pkg.Pinned {
			return catalog.Selection{}, fmt.Errorf("%w: %s", catalog.ErrPinned, pkg.Name)
		}

		if pkg.Candidate == nil && entry.Ver == nil {
			return catalog.Selection{}, fmt.Errorf("%w: %s has no installable version",
				catalog.ErrUnknownPackage, pkg.Name)
		}

		sel := catalog.Selection{State: catalog.SelectedInstall}
		if entry.VersionSpecific() {
			sel.Version = entry.Ver
		}

		return sel, nil

	case ActionRemove:
		if pkg.Installed == nil {
			return catalog.Selection{}, fmt.Errorf("%w: %s", catalog.ErrNotInstalled, pkg.Name)
		}

		return catalog.Selection{State: catalog.SelectedRemove}, nil

	case ActionPurge:
		if pkg.Installed == nil {
			return catalog.Selection{}, fmt.Errorf("%w: %s", catalog.ErrNotInstalled, pkg.Name)
		}

		return catalog.Selection{State: catalog.SelectedPurge}, nil

	case ActionKeep:
		return catalog.Selection{}, nil

	case ActionHold:
		if pkg.Installed == nil {
			return catalog.Selection{}, fmt.Errorf("%w: %s", catalog.ErrNotInstalled, pkg.Name)
		}

		return catalog.Selection{State: catalog.SelectedHold}, nil

	default:
		return catalog.Selection{}, fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}
}

// selectionItem is the reversible unit one marked package contributes to an
// undo group.
type selectionItem struct {
	cat      *catalog.Catalog
	pkg      *catalog.Package
	previous catalog.Selection
	applied  catalog.Selection
}

func (i *selectionItem) Undo() {
	_, _ = i.cat.SetSelection(i.pkg, i.previous)
}

func (i *selectionItem) Redo() {
	_, _ = i.cat.SetSelection(i.pkg, i.applied)
}
