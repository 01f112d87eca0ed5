// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel

import (
	"context"
	"log/slog"

	"github.com/janderssonse/pkgview/internal/catalog"
)

// ViewState is the build lifecycle of a view.
type ViewState int

// View lifecycle states.
const (
	// ViewEmpty means no store has been built yet (or the catalog closed).
	ViewEmpty ViewState = iota
	// ViewBuilding means a build is in flight; any previous store stays
	// live until the new one swaps in.
	ViewBuilding
	// ViewLive means the most recent build is published.
	ViewLive
)

// ContextMenuEvent carries the resolved selection an action menu should
// offer, expressed as catalog entries and applicable actions, never as raw
// row handles.
type ContextMenuEvent struct {
	Entries []catalog.Entry
	Actions []Action
}

// View owns one live store and its reverse index, the active limit, and the
// machinery to rebuild or patch them. All methods must be called from the
// interactive goroutine; only the builder's worker runs elsewhere.
type View struct {
	cat       *catalog.Catalog
	builder   *Builder
	formatter *Formatter
	factory   GeneratorFactory
	logger    *slog.Logger

	state ViewState
	limit string

	// pred is the live population, the one the published store was built
	// from; Refresh patches against it. nextPred is the in-flight build's
	// population and becomes live only when that build publishes.
	pred     Predicate
	nextPred Predicate

	store *Store
	index *ReverseIndex

	building *Build
	cancel   context.CancelFunc

	onSwap        func()
	onSelection   func([]catalog.Entry)
	onActivate    func(catalog.Entry)
	onContextMenu func(ContextMenuEvent)
}

// NewView creates a view over the catalog using the given generator variant.
// The view subscribes to catalog change, reload, and close notifications; it
// starts empty until the first Relimit. A nil logger falls back to
// slog.Default.
func NewView(cat *catalog.Catalog, factory GeneratorFactory, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}

	formatter := NewFormatter()
	view := &View{
		cat:       cat,
		builder:   NewBuilder(cat, formatter, logger),
		formatter: formatter,
		factory:   factory,
		logger:    logger,
	}

	cat.OnChange(view.Refresh)
	cat.OnReload(view.catalogReloaded)
	cat.OnClose(view.catalogClosed)

	return view
}

// State returns the view's build lifecycle state.
func (v *View) State() ViewState {
	return v.state
}

// Limit returns the active limit expression.
func (v *View) Limit() string {
	return v.limit
}

// Store returns the live store, nil while empty.
func (v *View) Store() *Store {
	return v.store
}

// Index returns the live reverse index, nil while empty.
func (v *View) Index() *ReverseIndex {
	return v.index
}

// SetOnSwap registers a callback fired when a new store is published.
func (v *View) SetOnSwap(fn func()) {
	v.onSwap = fn
}

// SetOnSelection registers a callback receiving the resolved entries of a
// selection change.
func (v *View) SetOnSelection(fn func([]catalog.Entry)) {
	v.onSelection = fn
}

// SetOnActivate registers a callback receiving the entry of an activated
// row.
func (v *View) SetOnActivate(fn func(catalog.Entry)) {
	v.onActivate = fn
}

// SetOnContextMenu registers a callback receiving context-menu events.
func (v *View) SetOnContextMenu(fn func(ContextMenuEvent)) {
	v.onContextMenu = fn
}

// Relimit replaces the active limit and starts a fresh build, even when the
// expression is unchanged. An outstanding build is cancelled; the previous
// store, if any, stays live and keeps refreshing against the previous limit
// until the new one finishes.
func (v *View) Relimit(expr string) error {
	pred, err := CompileLimit(expr)
	if err != nil {
		return err
	}

	v.limit = expr
	v.startBuild(pred, nil)

	return nil
}

// RelimitPredicate is Relimit for callers holding a predicate instead of an
// expression.
func (v *View) RelimitPredicate(pred Predicate) {
	v.limit = ""
	v.startBuild(pred, nil)
}

// SetGenerator switches the view to a different generator variant and, when
// a limit is active, rebuilds with it.
func (v *View) SetGenerator(factory GeneratorFactory) {
	v.factory = factory

	if pred := v.requestedPred(); pred != nil {
		v.startBuild(pred, nil)
	}
}

// requestedPred returns the most recently requested population: the one an
// in-flight build is using, otherwise the live one.
func (v *View) requestedPred() Predicate {
	if v.building != nil && v.nextPred != nil {
		return v.nextPred
	}

	return v.pred
}

// ShowSingle builds a store holding exactly the given entry. Refresh keeps
// treating that entry as the view's population.
func (v *View) ShowSingle(entry catalog.Entry) {
	v.limit = ""
	v.startBuild(func(e catalog.Entry) bool { return e.Pkg == entry.Pkg }, &entry)
}

func (v *View) startBuild(pred Predicate, single *catalog.Entry) {
	v.cancelBuild()

	ctx, cancel := context.WithCancel(context.Background())
	v.nextPred = pred
	v.cancel = cancel

	if single != nil {
		v.building = v.builder.BuildSingle(ctx, v.factory, *single)
	} else {
		v.building = v.builder.Build(ctx, v.factory, pred)
	}

	v.state = ViewBuilding
}

func (v *View) cancelBuild() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	v.building = nil
	v.nextPred = nil
}

// Building returns the in-flight build handle, nil when none. Consumers use
// it to wait on Done from their own scheduling loop and hand the result back
// via Complete.
func (v *View) Building() *Build {
	return v.building
}

// TryComplete polls the in-flight build and publishes its result when ready.
// It reports whether a swap happened. This is the idle-poll completion path;
// channel consumers use Building/Complete instead.
func (v *View) TryComplete() bool {
	if v.building == nil {
		return false
	}

	result, ok := v.building.TryResult()
	if !ok {
		return false
	}

	return v.Complete(v.building, result)
}

// Complete publishes a finished build. A result from a build that is no
// longer the view's current one is discarded silently: a newer Relimit
// superseded it. It reports whether the store was swapped.
func (v *View) Complete(build *Build, result BuildResult) bool {
	if build == nil || build != v.building {
		return false
	}

	v.building = nil

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	if result.Err != nil {
		v.logger.Error("store build failed", "error", result.Err)
		v.nextPred = nil

		if v.store != nil {
			v.state = ViewLive
		} else {
			v.state = ViewEmpty
		}

		return false
	}

	v.store = result.Store
	v.index = result.Index
	v.pred = v.nextPred
	v.nextPred = nil
	v.state = ViewLive

	if result.Skipped > 0 {
		v.logger.Warn("store built with skipped entries", "skipped", result.Skipped)
	}

	if v.onSwap != nil {
		v.onSwap()
	}

	return true
}

// Refresh patches the live store for the given changed packages: rows are
// removed when an entry left the limit, inserted when it entered, updated in
// place when only attributes changed, and re-placed when the change moved
// the row's position. Cost is proportional to the change set, never to
// catalog size. A refresh with no live store, or an empty change set, is a
// no-op.
func (v *View) Refresh(changed catalog.ChangeSet) {
	if len(changed) == 0 || v.store == nil || v.pred == nil {
		return
	}

	for _, pkg := range changed {
		v.refreshOne(pkg)
	}
}

func (v *View) refreshOne(pkg *catalog.Package) {
	entry := catalog.Entry{Pkg: pkg}
	key := entry.IndexKey()
	passes := v.pred(entry)

	if !passes {
		for _, row := range v.index.RemoveAll(key) {
			v.store.RemoveWithHeader(row)
		}

		return
	}

	rows := v.index.Rows(key)
	if len(rows) == 0 {
		v.insertFresh(entry, key)

		return
	}

	// A single-entry view may hold a version-specific row; re-formatting it
	// package-wide would drop the version decision.
	if len(rows) == 1 && rows[0].Entry.VersionSpecific() {
		entry.Ver = rows[0].Entry.Ver
	}

	attrs, err := v.formatter.FillRow(entry, entry.VersionSpecific())
	if err != nil {
		v.logger.Warn("skipping unformattable entry on refresh",
			"package", key, "error", err)

		return
	}

	placement := v.store.Placement()
	fresh := NewRow(attrs, entry)
	old := rows[0]
	moved := len(rows) > 1 ||
		old.Attrs.Version != attrs.Version ||
		placement.Slot(old) != placement.Slot(fresh)

	if !moved {
		old.Attrs = attrs
		old.Entry = entry

		return
	}

	for _, row := range v.index.RemoveAll(key) {
		v.store.RemoveWithHeader(row)
	}

	placement.Place(v.store, fresh)
	v.index.Insert(key, fresh)
}

func (v *View) insertFresh(entry catalog.Entry, key string) {
	attrs, err := v.formatter.FillRow(entry, entry.VersionSpecific())
	if err != nil {
		v.logger.Warn("skipping unformattable entry on refresh",
			"package", key, "error", err)

		return
	}

	row := NewRow(attrs, entry)
	v.store.Placement().Place(v.store, row)
	v.index.Insert(key, row)
}

func (v *View) catalogReloaded() {
	pred := v.requestedPred()
	if pred == nil {
		return
	}

	v.startBuild(pred, nil)
}

func (v *View) catalogClosed() {
	v.cancelBuild()
	v.store = nil
	v.index = nil
	v.pred = nil
	v.state = ViewEmpty
}

// SelectionChanged resolves the selected rows to catalog entries and fires
// the selection callback. Header rows resolve to nothing.
func (v *View) SelectionChanged(rows []*Row) {
	if v.onSelection != nil {
		v.onSelection(ResolveRows(rows))
	}
}

// Activate resolves an activated row and fires the activation callback.
func (v *View) Activate(row *Row) {
	if v.onActivate == nil || row == nil || row.IsHeader() || !row.Entry.Valid() {
		return
	}

	v.onActivate(row.Entry)
}

// ContextMenu resolves the selection and fires the context-menu callback
// with the actions applicable to it.
func (v *View) ContextMenu(rows []*Row) {
	if v.onContextMenu == nil {
		return
	}

	entries := ResolveRows(rows)
	v.onContextMenu(ContextMenuEvent{
		Entries: entries,
		Actions: ApplicableActions(entries),
	})
}

// ResolveRows maps rows back to their catalog entries, skipping headers and
// unresolvable rows.
func ResolveRows(rows []*Row) []catalog.Entry {
	entries := make([]catalog.Entry, 0, len(rows))

	for _, row := range rows {
		if row == nil || row.IsHeader() || !row.Entry.Valid() {
			continue
		}

		entries = append(entries, row.Entry)
	}

	return entries
}
