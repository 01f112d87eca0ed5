// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package undo records reversible mutations and replays them as grouped
// transactions, so one user-visible action undoes atomically no matter how
// many individual changes it produced.
package undo

// Item is a single reversible mutation.
type Item interface {
	// Undo reverts the mutation.
	Undo()

	// Redo reapplies the mutation after an Undo.
	Redo()
}

// Group collects items applied together. Undoing a group reverts its items
// in reverse application order; redoing replays them in application order.
type Group struct {
	items []Item
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Add appends an item to the group.
func (g *Group) Add(item Item) {
	g.items = append(g.items, item)
}

// Len returns the number of items in the group.
func (g *Group) Len() int {
	return len(g.items)
}

// Undo reverts all items in reverse application order.
func (g *Group) Undo() {
	for i := len(g.items) - 1; i >= 0; i-- {
		g.items[i].Undo()
	}
}

// Redo replays all items in application order.
func (g *Group) Redo() {
	for _, item := range g.items {
		item.Redo()
	}
}

// History is a linear undo/redo stack of groups. Recording a new group
// discards any groups available for redo.
type History struct {
	done   []*Group
	undone []*Group
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record pushes a group onto the undo stack. Empty groups are dropped so
// actions that touched nothing do not occupy an undo step.
func (h *History) Record(group *Group) {
	if group == nil || group.Len() == 0 {
		return
	}

	h.done = append(h.done, group)
	h.undone = nil
}

// Undo reverts the most recently recorded group. It reports whether a group
// was available to undo.
func (h *History) Undo() bool {
	if len(h.done) == 0 {
		return false
	}

	group := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	group.Undo()
	h.undone = append(h.undone, group)

	return true
}

// Redo replays the most recently undone group. It reports whether a group
// was available to redo.
func (h *History) Redo() bool {
	if len(h.undone) == 0 {
		return false
	}

	group := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	group.Redo()
	h.done = append(h.done, group)

	return true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool {
	return len(h.done) > 0
}

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool {
	return len(h.undone) > 0
}
