// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel

import (
	"sort"
	"strings"

	"github.com/janderssonse/pkgview/internal/catalog"
)

// Row is one displayable unit in a store: either an entry row carrying the
// catalog entry it was built from, or a text-only header row used by grouping
// generators. Rows are owned by exactly one store and act as the opaque
// handles the reverse index maps to.
type Row struct {
	Attrs RowAttributes
	Entry catalog.Entry

	header bool
	slot   string
}

// IsHeader reports whether the row is a grouping header.
func (r *Row) IsHeader() bool {
	return r.header
}

// NewRow creates an entry row.
func NewRow(attrs RowAttributes, entry catalog.Entry) *Row {
	return &Row{Attrs: attrs, Entry: entry}
}

// newHeaderRow creates a header row for the given grouping slot.
func newHeaderRow(attrs RowAttributes, slot string) *Row {
	return &Row{Attrs: attrs, header: true, slot: slot}
}

// Placement is the ordering policy a generator leaves on its finished store.
// Incremental refresh uses it to put new or moved rows where a full rebuild
// would have put them, synthesizing header rows as needed.
type Placement interface {
	// Slot returns the grouping slot a row belongs to. Rows whose slot or
	// version changed cannot be updated in place and are re-placed.
	Slot(r *Row) string

	// Place inserts the row into the store at its policy position.
	Place(s *Store, r *Row)
}

// Store is an ordered list of rows plus a position lookup. It is built
// privately by one generator and owned by the view after the atomic swap;
// it is not safe for concurrent mutation.
type Store struct {
	rows      []*Row
	pos       map[*Row]int
	placement Placement
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{pos: make(map[*Row]int)}
}

// Len returns the number of rows, headers included.
func (s *Store) Len() int {
	return len(s.rows)
}

// At returns the row at position i.
func (s *Store) At(i int) *Row {
	return s.rows[i]
}

// Rows returns the backing row slice. Callers must treat it as read-only.
func (s *Store) Rows() []*Row {
	return s.rows
}

// Index returns the position of a row.
func (s *Store) Index(r *Row) (int, bool) {
	i, ok := s.pos[r]

	return i, ok
}

// Placement returns the ordering policy set by the generator, nil before
// Finish.
func (s *Store) Placement() Placement {
	return s.placement
}

// Append adds a row at the end.
func (s *Store) Append(r *Row) {
	s.pos[r] = len(s.rows)
	s.rows = append(s.rows, r)
}

// InsertAt adds a row at position i, shifting later rows.
func (s *Store) InsertAt(i int, r *Row) {
	s.rows = append(s.rows, nil)
	copy(s.rows[i+1:], s.rows[i:])
	s.rows[i] = r
	s.reindexFrom(i)
}

// Remove deletes a row. It reports whether the row was present.
func (s *Store) Remove(r *Row) bool {
	i, ok := s.pos[r]
	if !ok {
		return false
	}

	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	delete(s.pos, r)
	s.reindexFrom(i)

	return true
}

// RemoveWithHeader deletes a row, then deletes its preceding header row if
// the removal left that header's group empty.
func (s *Store) RemoveWithHeader(r *Row) bool {
	i, ok := s.pos[r]
	if !ok {
		return false
	}

	s.Remove(r)

	if i == 0 || !s.rows[i-1].IsHeader() {
		return true
	}

	groupEmpty := i == len(s.rows) || s.rows[i].IsHeader()
	if groupEmpty {
		s.Remove(s.rows[i-1])
	}

	return true
}

// SortStable orders the rows by less, keeping equal rows in insertion order,
// and rebuilds the position lookup.
func (s *Store) SortStable(less func(a, b *Row) bool) {
	sort.SliceStable(s.rows, func(i, j int) bool { return less(s.rows[i], s.rows[j]) })
	s.reindexFrom(0)
}

func (s *Store) reindexFrom(i int) {
	for ; i < len(s.rows); i++ {
		s.pos[s.rows[i]] = i
	}
}

// entryLess is the row order shared by all generators within one group:
// case-insensitive name, then version.
func entryLess(a, b *Row) bool {
	an, bn := strings.ToLower(a.Attrs.Name), strings.ToLower(b.Attrs.Name)
	if an != bn {
		return an < bn
	}

	return a.Attrs.Version < b.Attrs.Version
}
