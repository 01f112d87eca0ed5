// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package listmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/stringutil"
)

// ErrBadLimit is returned when a limit expression cannot be compiled.
var ErrBadLimit = errors.New("bad limit expression")

// Predicate is the boolean filter ("limit") a view applies to catalog
// entries. It must be pure: no mutation of the entry or catalog.
type Predicate func(catalog.Entry) bool

// MatchAll accepts every entry.
func MatchAll(catalog.Entry) bool { return true }

// MatchNone rejects every entry. The empty limit compiles to this: no list
// is shown until the user sets a limit.
func MatchNone(catalog.Entry) bool { return false }

// CompileLimit compiles a limit expression into a predicate. The language is
// a whitespace conjunction of terms:
//
//	all | installed | notinstalled | upgradable | broken | held | virtual
//	~ssection      section match (case-insensitive)
//	!term          negation
//	anything else  name substring match (case-insensitive)
//
// The empty expression matches nothing.
func CompileLimit(expr string) (Predicate, error) {
	terms := strings.Fields(expr)
	if len(terms) == 0 {
		return MatchNone, nil
	}

	preds := make([]Predicate, 0, len(terms))

	for _, term := range terms {
		pred, err := compileTerm(term)
		if err != nil {
			return nil, err
		}

		preds = append(preds, pred)
	}

	if len(preds) == 1 {
		return preds[0], nil
	}

	return func(e catalog.Entry) bool {
		for _, pred := range preds {
			if !pred(e) {
				return false
			}
		}

		return true
	}, nil
}

func compileTerm(term string) (Predicate, error) {
	if negated, ok := strings.CutPrefix(term, "!"); ok {
		if negated == "" {
			return nil, fmt.Errorf("%w: dangling negation", ErrBadLimit)
		}

		inner, err := compileTerm(negated)
		if err != nil {
			return nil, err
		}

		return func(e catalog.Entry) bool { return !inner(e) }, nil
	}

	if rest, ok := strings.CutPrefix(term, "~"); ok {
		if section, ok := strings.CutPrefix(rest, "s"); ok && section != "" {
			return func(e catalog.Entry) bool {
				return strings.EqualFold(e.Pkg.Section, section)
			}, nil
		}

		return nil, fmt.Errorf("%w: unknown operator %q", ErrBadLimit, term)
	}

	switch strings.ToLower(term) {
	case "all":
		return MatchAll, nil
	case "installed":
		return func(e catalog.Entry) bool { return e.Pkg.Installed != nil }, nil
	case "notinstalled":
		return func(e catalog.Entry) bool { return e.Pkg.Installed == nil }, nil
	case "upgradable":
		return func(e catalog.Entry) bool { return e.Pkg.Upgradable() }, nil
	case "broken":
		return func(e catalog.Entry) bool { return e.Pkg.State == catalog.StateBroken }, nil
	case "held":
		return func(e catalog.Entry) bool {
			return e.Pkg.Selection().State == catalog.SelectedHold
		}, nil
	case "virtual":
		return func(e catalog.Entry) bool { return e.Pkg.State == catalog.StateVirtual }, nil
	}

	name := term

	return func(e catalog.Entry) bool {
		return stringutil.ContainsIgnoreCase(e.Pkg.Name, name)
	}, nil
}
