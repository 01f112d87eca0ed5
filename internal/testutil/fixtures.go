// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides shared catalog fixtures for tests.
package testutil

import (
	"fmt"

	"github.com/janderssonse/pkgview/internal/catalog"
)

// InstalledPackage builds an installed package with one version.
func InstalledPackage(name, section, version string) *catalog.Package {
	ver := &catalog.Version{Number: version}

	return &catalog.Package{
		Name:      name,
		Section:   section,
		Versions:  []*catalog.Version{ver},
		Installed: ver,
		Candidate: ver,
		State:     catalog.StateInstalled,
	}
}

// AvailablePackage builds a not-installed package with one candidate version.
func AvailablePackage(name, section, version string) *catalog.Package {
	ver := &catalog.Version{Number: version}

	return &catalog.Package{
		Name:      name,
		Section:   section,
		Versions:  []*catalog.Version{ver},
		Candidate: ver,
		State:     catalog.StateNotInstalled,
	}
}

// UpgradablePackage builds an installed package with a newer candidate.
func UpgradablePackage(name, section, installed, candidate string) *catalog.Package {
	old := &catalog.Version{Number: installed}
	next := &catalog.Version{Number: candidate}

	return &catalog.Package{
		Name:      name,
		Section:   section,
		Versions:  []*catalog.Version{old, next},
		Installed: old,
		Candidate: next,
		State:     catalog.StateInstalled,
	}
}

// BrokenPackage builds an installed package in broken state.
func BrokenPackage(name, section, version string) *catalog.Package {
	pkg := InstalledPackage(name, section, version)
	pkg.State = catalog.StateBroken

	return pkg
}

// VirtualPackage builds a virtual package with no versions.
func VirtualPackage(name, section string) *catalog.Package {
	return &catalog.Package{
		Name:    name,
		Section: section,
		State:   catalog.StateVirtual,
	}
}

// SampleCatalog builds the small mixed catalog most tests start from:
// an installed editor, an available shell, an installed-and-pinned daemon,
// and an upgradable library.
func SampleCatalog() *catalog.Catalog {
	pinned := InstalledPackage("nginx", "net", "2.0")
	pinned.Pinned = true

	return catalog.New(
		InstalledPackage("emacs", "editors", "29.1"),
		AvailablePackage("zsh", "shells", "5.9"),
		pinned,
		UpgradablePackage("libssl", "libs", "3.0.1", "3.0.2"),
	)
}

// WideCatalog builds a catalog with count generated packages across a few
// sections, alternating installed and available, for bulk-build tests.
func WideCatalog(count int) *catalog.Catalog {
	sections := []string{"admin", "devel", "games", "net"}
	pkgs := make([]*catalog.Package, 0, count)

	for i := range count {
		name := fmt.Sprintf("pkg-%04d", i)
		section := sections[i%len(sections)]

		if i%2 == 0 {
			pkgs = append(pkgs, InstalledPackage(name, section, "1.0"))
		} else {
			pkgs = append(pkgs, AvailablePackage(name, section, "1.0"))
		}
	}

	return catalog.New(pkgs...)
}
