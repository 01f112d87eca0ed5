// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/janderssonse/pkgview/internal/catalog"
)

// Generator consumes catalog entries one at a time and builds a private
// store, recording each produced row in the reverse index as it goes. The
// store is finalized (sorted, headers emitted) by Finish; Model is defined
// only after Finish. A generator with zero Add calls produces an empty store.
type Generator interface {
	// Add appends the row(s) for one entry and records them in idx.
	Add(entry catalog.Entry, idx *ReverseIndex) error

	// Finish finalizes the store. Add must not be called afterwards.
	Finish()

	// Model returns the finished store.
	Model() *Store
}

// GeneratorFactory constructs a generator around a formatter. Builders call
// it once per build so every build gets a fresh private store.
type GeneratorFactory func(f *Formatter) Generator

// Section name shown for packages without a section.
const sectionNone = "misc"

var titleCaser = cases.Title(language.English)

// FlatGenerator produces a single alphabetical list with no headers.
type FlatGenerator struct {
	formatter *Formatter
	store     *Store
}

// NewFlatGenerator is a GeneratorFactory for flat lists.
func NewFlatGenerator(f *Formatter) Generator {
	return &FlatGenerator{formatter: f, store: NewStore()}
}

// Add appends one row for the entry.
func (g *FlatGenerator) Add(entry catalog.Entry, idx *ReverseIndex) error {
	attrs, err := g.formatter.FillRow(entry, entry.VersionSpecific())
	if err != nil {
		return err
	}

	row := NewRow(attrs, entry)
	g.store.Append(row)
	idx.Insert(entry.IndexKey(), row)

	return nil
}

// Finish sorts the list alphabetically.
func (g *FlatGenerator) Finish() {
	g.store.SortStable(entryLess)
	g.store.placement = flatPlacement{}
}

// Model returns the finished store.
func (g *FlatGenerator) Model() *Store {
	return g.store
}

type flatPlacement struct{}

func (flatPlacement) Slot(*Row) string { return "" }

func (flatPlacement) Place(s *Store, r *Row) {
	i := sort.Search(len(s.rows), func(i int) bool { return !entryLess(s.rows[i], r) })
	s.InsertAt(i, r)
}

// groupedGenerator is the shared machinery of the header-emitting variants:
// rows are collected per slot during Add and emitted under header rows at
// Finish, in the placement's slot order.
type groupedGenerator struct {
	formatter *Formatter
	store     *Store
	groups    map[string][]*Row
	placement groupedPlacement
}

func (g *groupedGenerator) Add(entry catalog.Entry, idx *ReverseIndex) error {
	attrs, err := g.formatter.FillRow(entry, entry.VersionSpecific())
	if err != nil {
		return err
	}

	row := NewRow(attrs, entry)
	row.slot = g.placement.Slot(row)
	g.groups[row.slot] = append(g.groups[row.slot], row)
	idx.Insert(entry.IndexKey(), row)

	return nil
}

func (g *groupedGenerator) Finish() {
	slots := make([]string, 0, len(g.groups))
	for slot := range g.groups {
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool { return g.placement.slotLess(slots[i], slots[j]) })

	for _, slot := range slots {
		header := newHeaderRow(g.formatter.FillHeader(g.placement.headerText(slot)), slot)
		g.store.Append(header)

		rows := g.groups[slot]
		sort.SliceStable(rows, func(i, j int) bool { return entryLess(rows[i], rows[j]) })

		for _, row := range rows {
			g.store.Append(row)
		}
	}

	g.store.placement = g.placement
}

func (g *groupedGenerator) Model() *Store {
	return g.store
}

// groupedPlacement orders grouped stores: headers in slot order, entry rows
// alphabetically within their slot.
type groupedPlacement interface {
	Placement
	slotLess(a, b string) bool
	headerText(slot string) string
}

// groupedPlace inserts a row into its slot, creating the header when the
// slot is not yet present in the store.
func groupedPlace(s *Store, r *Row, p groupedPlacement, f *Formatter) {
	r.slot = p.Slot(r)

	headerAt := -1

	for i, row := range s.rows {
		if !row.IsHeader() {
			continue
		}

		if row.slot == r.slot {
			headerAt = i

			break
		}

		if p.slotLess(r.slot, row.slot) {
			// Slot missing; this is where its header belongs.
			header := newHeaderRow(f.FillHeader(p.headerText(r.slot)), r.slot)
			s.InsertAt(i, header)
			s.InsertAt(i+1, r)

			return
		}
	}

	if headerAt < 0 {
		header := newHeaderRow(f.FillHeader(p.headerText(r.slot)), r.slot)
		s.Append(header)
		s.Append(r)

		return
	}

	i := headerAt + 1
	for i < len(s.rows) && !s.rows[i].IsHeader() && entryLess(s.rows[i], r) {
		i++
	}

	s.InsertAt(i, r)
}

// SectionGenerator groups entries by catalog section with one header per
// section, sections in alphabetical order.
type SectionGenerator struct {
	groupedGenerator
}

// NewSectionGenerator is a GeneratorFactory for section-grouped lists.
func NewSectionGenerator(f *Formatter) Generator {
	gen := &SectionGenerator{groupedGenerator{
		formatter: f,
		store:     NewStore(),
		groups:    make(map[string][]*Row),
	}}
	gen.placement = &sectionPlacement{formatter: f}

	return gen
}

type sectionPlacement struct {
	formatter *Formatter
}

func (p *sectionPlacement) Slot(r *Row) string {
	if r.IsHeader() {
		return r.slot
	}

	if r.Attrs.Section == "" {
		return sectionNone
	}

	return r.Attrs.Section
}

func (p *sectionPlacement) slotLess(a, b string) bool { return a < b }

func (p *sectionPlacement) headerText(slot string) string {
	return titleCaser.String(slot)
}

func (p *sectionPlacement) Place(s *Store, r *Row) {
	groupedPlace(s, r, p, p.formatter)
}

// Status group headers, in display order. Packages with no pending selection
// and nothing wrong sort last.
const (
	groupInstall   = "To install"
	groupRemove    = "To remove"
	groupPurge     = "To purge"
	groupHold      = "Held"
	groupBroken    = "Broken"
	groupUnchanged = "Unchanged"
)

var statusGroupOrder = map[string]int{
	groupInstall:   0,
	groupRemove:    1,
	groupPurge:     2,
	groupHold:      3,
	groupBroken:    4,
	groupUnchanged: 5,
}

// StatusGenerator groups entries by pending action, the preview-style
// listing: what an apply run would install, remove, purge, or hold back.
type StatusGenerator struct {
	groupedGenerator
}

// NewStatusGenerator is a GeneratorFactory for status-grouped lists.
func NewStatusGenerator(f *Formatter) Generator {
	gen := &StatusGenerator{groupedGenerator{
		formatter: f,
		store:     NewStore(),
		groups:    make(map[string][]*Row),
	}}
	gen.placement = &statusPlacement{formatter: f}

	return gen
}

type statusPlacement struct {
	formatter *Formatter
}

// Slot derives the group from the row's frozen attributes, not from live
// catalog state: a refresh compares the old row's slot against a freshly
// formatted one to decide whether the row moved groups.
func (p *statusPlacement) Slot(r *Row) string {
	if r.IsHeader() {
		return r.slot
	}

	selected := r.Attrs.SelectedState
	if cut := strings.Index(selected, " ("); cut >= 0 {
		selected = selected[:cut]
	}

	switch selected {
	case "install":
		return groupInstall
	case "remove":
		return groupRemove
	case "purge":
		return groupPurge
	case "hold":
		return groupHold
	}

	if r.Attrs.CurrentState == catalog.StateBroken.String() {
		return groupBroken
	}

	return groupUnchanged
}

func (p *statusPlacement) slotLess(a, b string) bool {
	return statusGroupOrder[a] < statusGroupOrder[b]
}

func (p *statusPlacement) headerText(slot string) string { return slot }

func (p *statusPlacement) Place(s *Store, r *Row) {
	groupedPlace(s, r, p, p.formatter)
}
