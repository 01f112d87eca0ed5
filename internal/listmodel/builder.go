// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/janderssonse/pkgview/internal/catalog"
)

// BuildResult is the store and index pair one build pass produced. They are
// created together and must be swapped in together.
type BuildResult struct {
	Store   *Store
	Index   *ReverseIndex
	Skipped int
	Err     error
}

// Build is the handle to one in-flight or finished build. The result is
// delivered exactly once on Done; a cancelled build delivers nothing.
type Build struct {
	done     chan BuildResult
	result   BuildResult
	received bool
}

// Done returns the one-shot completion channel. A finished build delivers
// exactly one result before the channel closes; a cancelled build closes it
// without delivering. Consumers on the interactive goroutine must not block
// on it directly; they either receive from it on a separate goroutine that
// posts back into their scheduling loop, or poll TryResult at idle.
func (b *Build) Done() <-chan BuildResult {
	return b.done
}

// TryResult polls for completion without blocking. Once the result has been
// observed it stays available. A cancelled build never reports completion.
func (b *Build) TryResult() (BuildResult, bool) {
	if b.received {
		return b.result, true
	}

	select {
	case result, ok := <-b.done:
		if !ok {
			return BuildResult{}, false
		}

		b.result = result
		b.received = true

		return result, true
	default:
		return BuildResult{}, false
	}
}

// Builder populates list stores from the catalog on a worker goroutine so
// large catalogs never stall the interactive goroutine. The generator and
// its store stay private to the worker until the result is delivered.
type Builder struct {
	cat       *catalog.Catalog
	formatter *Formatter
	logger    *slog.Logger
}

// NewBuilder creates a builder over the catalog. A nil logger falls back to
// slog.Default.
func NewBuilder(cat *catalog.Catalog, formatter *Formatter, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{cat: cat, formatter: formatter, logger: logger}
}

// Build starts a bulk build: every catalog entry matching pred is added to a
// fresh generator from factory. Cancelling ctx abandons the build without
// delivering a result.
func (b *Builder) Build(ctx context.Context, factory GeneratorFactory, pred Predicate) *Build {
	return b.start(ctx, factory, func(gen Generator, idx *ReverseIndex) int {
		skipped := 0

		b.cat.Iterate(func(entry catalog.Entry) bool {
			if ctx.Err() != nil {
				return false
			}

			if !pred(entry) {
				return true
			}

			if err := gen.Add(entry, idx); err != nil {
				skipped++
				b.logger.Warn("skipping unformattable entry",
					"package", entry.IndexKey(), "error", err)
			}

			return true
		})

		return skipped
	})
}

// BuildSingle starts a build containing exactly one entry.
func (b *Builder) BuildSingle(ctx context.Context, factory GeneratorFactory, entry catalog.Entry) *Build {
	return b.start(ctx, factory, func(gen Generator, idx *ReverseIndex) int {
		if err := gen.Add(entry, idx); err != nil {
			b.logger.Warn("skipping unformattable entry",
				"package", entry.IndexKey(), "error", err)

			return 1
		}

		return 0
	})
}

// start runs the population function on a worker goroutine and delivers the
// finished result. Population failures never escape the worker: a panic is
// captured into the result's Err.
func (b *Builder) start(ctx context.Context, factory GeneratorFactory, populate func(Generator, *ReverseIndex) int) *Build {
	build := &Build{done: make(chan BuildResult, 1)}

	go func() {
		var result BuildResult

		defer func() {
			if r := recover(); r != nil {
				result = BuildResult{Err: fmt.Errorf("store build failed: %v", r)}
				b.logger.Error("store build panicked", "error", r)
			}

			if ctx.Err() != nil {
				// Superseded; no result is delivered, the closed
				// channel lets watchers move on.
				close(build.done)

				return
			}

			build.done <- result
			close(build.done)
		}()

		gen := factory(b.formatter)
		idx := NewReverseIndex()

		result.Skipped = populate(gen, idx)

		if ctx.Err() != nil {
			return
		}

		gen.Finish()
		result.Store = gen.Model()
		result.Index = idx
	}()

	return build
}
