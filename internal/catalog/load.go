// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// packageFile is the on-disk TOML shape of a catalog snapshot. The snapshot
// format exists for the CLI and tests; it is not how a real package database
// persists itself.
type packageFile struct {
	Packages []packageRecord `toml:"packages"`
}

type packageRecord struct {
	Name      string   `toml:"name"`
	Section   string   `toml:"section"`
	Versions  []string `toml:"versions"`
	Installed string   `toml:"installed,omitempty"`
	Candidate string   `toml:"candidate,omitempty"`
	State     string   `toml:"state,omitempty"`
	Pinned    bool     `toml:"pinned,omitempty"`
}

// LoadTOML reads a catalog snapshot from a TOML file.
func LoadTOML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}

	var file packageFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog snapshot: %w", err)
	}

	pkgs := make([]*Package, 0, len(file.Packages))
	for _, rec := range file.Packages {
		pkgs = append(pkgs, rec.toPackage())
	}

	return New(pkgs...), nil
}

func (r packageRecord) toPackage() *Package {
	pkg := &Package{
		Name:    r.Name,
		Section: r.Section,
		Pinned:  r.Pinned,
	}

	byNumber := make(map[string]*Version, len(r.Versions))

	for _, number := range r.Versions {
		ver := &Version{Number: number}
		byNumber[number] = ver
		pkg.Versions = append(pkg.Versions, ver)
	}

	version := func(number string) *Version {
		if number == "" {
			return nil
		}

		if ver, ok := byNumber[number]; ok {
			return ver
		}

		// Referenced but unlisted versions still get a record so the
		// snapshot stays loadable.
		ver := &Version{Number: number}
		byNumber[number] = ver
		pkg.Versions = append(pkg.Versions, ver)

		return ver
	}

	pkg.Installed = version(r.Installed)
	pkg.Candidate = version(r.Candidate)

	switch r.State {
	case "broken":
		pkg.State = StateBroken
	case "virtual":
		pkg.State = StateVirtual
	default:
		if pkg.Installed != nil {
			pkg.State = StateInstalled
		} else {
			pkg.State = StateNotInstalled
		}
	}

	return pkg
}
