// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"fmt"
	"sort"
	"sync"
)

// ChangeSet is the batch of packages touched since the last flush. Consumers
// use it to patch live list models incrementally instead of rebuilding.
type ChangeSet []*Package

// Catalog is an in-memory package database. Mutations to pending selections
// accumulate into a change set that is delivered to subscribers on Flush, so
// one bulk action produces one notification.
type Catalog struct {
	mu      sync.RWMutex
	pkgs    []*Package
	byName  map[string]*Package
	pending map[string]*Package

	changeSubs []func(ChangeSet)
	reloadSubs []func()
	closeSubs  []func()
}

// New creates a catalog holding the given packages. Package names must be
// unique; later duplicates replace earlier ones.
func New(pkgs ...*Package) *Catalog {
	cat := &Catalog{
		byName:  make(map[string]*Package, len(pkgs)),
		pending: make(map[string]*Package),
	}
	cat.load(pkgs)

	return cat
}

func (c *Catalog) load(pkgs []*Package) {
	c.pkgs = c.pkgs[:0]
	clear(c.byName)

	for _, pkg := range pkgs {
		if _, dup := c.byName[pkg.Name]; !dup {
			c.pkgs = append(c.pkgs, pkg)
		}

		c.byName[pkg.Name] = pkg
	}

	sort.Slice(c.pkgs, func(i, j int) bool { return c.pkgs[i].Name < c.pkgs[j].Name })
}

// Len returns the number of packages.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.pkgs)
}

// Lookup returns the package with the given name.
func (c *Catalog) Lookup(name string) (*Package, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pkg, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}

	return pkg, nil
}

// Entry returns the package-wide (versionless) entry for the given name.
func (c *Catalog) Entry(name string) (Entry, error) {
	pkg, err := c.Lookup(name)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Pkg: pkg}, nil
}

// Iterate calls fn for every package's package-wide entry, in name order,
// until fn returns false. The callback must not mutate the catalog.
func (c *Catalog) Iterate(fn func(Entry) bool) {
	c.mu.RLock()
	pkgs := make([]*Package, len(c.pkgs))
	copy(pkgs, c.pkgs)
	c.mu.RUnlock()

	for _, pkg := range pkgs {
		if !fn(Entry{Pkg: pkg}) {
			return
		}
	}
}

// SetSelection replaces a package's pending selection and returns the
// previous one. The package is added to the pending change set; callers
// deliver the batch with Flush. A selection naming a version that does not
// belong to the package is rejected.
func (c *Catalog) SetSelection(pkg *Package, sel Selection) (Selection, error) {
	if sel.Version != nil && !pkg.HasVersion(sel.Version) {
		return Selection{}, fmt.Errorf("%w: %s", ErrForeignVersion, pkg.Name)
	}

	prev := pkg.setSelection(sel)

	c.mu.Lock()
	c.pending[pkg.Name] = pkg
	c.mu.Unlock()

	return prev, nil
}

// Flush delivers the accumulated change set to change subscribers and clears
// it. No notification is sent for an empty set.
func (c *Catalog) Flush() {
	c.mu.Lock()

	if len(c.pending) == 0 {
		c.mu.Unlock()

		return
	}

	changed := make(ChangeSet, 0, len(c.pending))
	for _, pkg := range c.pending {
		changed = append(changed, pkg)
	}

	clear(c.pending)
	subs := append([]func(ChangeSet){}, c.changeSubs...)
	c.mu.Unlock()

	sort.Slice(changed, func(i, j int) bool { return changed[i].Name < changed[j].Name })

	for _, fn := range subs {
		fn(changed)
	}
}

// OnChange registers a callback receiving flushed change sets. Callbacks run
// synchronously on the goroutine that called Flush.
func (c *Catalog) OnChange(fn func(ChangeSet)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.changeSubs = append(c.changeSubs, fn)
}

// OnReload registers a callback run after a full catalog reload.
func (c *Catalog) OnReload(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reloadSubs = append(c.reloadSubs, fn)
}

// OnClose registers a callback run when the catalog is closed.
func (c *Catalog) OnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeSubs = append(c.closeSubs, fn)
}

// Reload replaces the full package set and notifies reload subscribers.
// Live views respond by rebuilding with their current limit.
func (c *Catalog) Reload(pkgs []*Package) {
	c.mu.Lock()
	c.load(pkgs)
	clear(c.pending)
	subs := append([]func(){}, c.reloadSubs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Close empties the catalog and notifies close subscribers. Views respond by
// dropping their stores.
func (c *Catalog) Close() {
	c.mu.Lock()
	c.pkgs = nil
	clear(c.byName)
	clear(c.pending)
	subs := append([]func(){}, c.closeSubs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
