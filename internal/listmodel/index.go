// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel

// ReverseIndex is a multimap from catalog-entry identity to the rows built
// for it. A package may map to several rows (one per version, or one per
// grouping a generator put it in). The index lives and dies with the store
// it was built against: a row is removed from the index the moment it is
// removed from the store.
type ReverseIndex struct {
	rows map[string][]*Row
}

// NewReverseIndex creates an empty index.
func NewReverseIndex() *ReverseIndex {
	return &ReverseIndex{rows: make(map[string][]*Row)}
}

// Insert maps key to an additional row.
func (ri *ReverseIndex) Insert(key string, row *Row) {
	ri.rows[key] = append(ri.rows[key], row)
}

// Rows returns the rows mapped to key. The result is shared; callers that
// mutate the index while iterating must copy it first.
func (ri *ReverseIndex) Rows(key string) []*Row {
	return ri.rows[key]
}

// Contains reports whether key has at least one mapped row.
func (ri *ReverseIndex) Contains(key string) bool {
	return len(ri.rows[key]) > 0
}

// Remove unmaps one row from key. It reports whether the pair was present.
func (ri *ReverseIndex) Remove(key string, row *Row) bool {
	rows := ri.rows[key]
	for i, candidate := range rows {
		if candidate == row {
			rows = append(rows[:i], rows[i+1:]...)
			if len(rows) == 0 {
				delete(ri.rows, key)
			} else {
				ri.rows[key] = rows
			}

			return true
		}
	}

	return false
}

// RemoveAll unmaps and returns every row under key.
func (ri *ReverseIndex) RemoveAll(key string) []*Row {
	rows := ri.rows[key]
	delete(ri.rows, key)

	return rows
}

// Len returns the total number of (key, row) pairs.
func (ri *ReverseIndex) Len() int {
	total := 0
	for _, rows := range ri.rows {
		total += len(rows)
	}

	return total
}

// Keys returns the indexed entry identities.
func (ri *ReverseIndex) Keys() []string {
	keys := make([]string, 0, len(ri.rows))
	for key := range ri.rows {
		keys = append(keys, key)
	}

	return keys
}
