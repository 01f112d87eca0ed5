// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console renders built list stores as terminal tables for the
// one-shot list command.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/janderssonse/pkgview/internal/listmodel"
	"github.com/janderssonse/pkgview/internal/stringutil"
)

// FallbackWidth is used when output is not a terminal.
const FallbackWidth = 100

// Column proportions of the table, in order: current state, selected state,
// name, section, version.
var columnWeights = [5]int{12, 14, 34, 20, 20}

// Printer writes stores as fixed-width tables.
type Printer struct {
	// Width is the table width in cells; zero means detect from stdout.
	Width int
	// Plain suppresses the header rule and group indentation, for piping.
	Plain bool
}

// DetectWidth returns the terminal width of fd, or FallbackWidth when fd is
// not a terminal.
func DetectWidth(fd uintptr) int {
	if !term.IsTerminal(int(fd)) {
		return FallbackWidth
	}

	width, _, err := term.GetSize(int(fd))
	if err != nil || width <= 0 {
		return FallbackWidth
	}

	return width
}

// PrintStore writes one line per row: header rows as group titles, entry
// rows as columns.
func (p *Printer) PrintStore(w io.Writer, store *listmodel.Store) error {
	width := p.Width
	if width <= 0 {
		width = DetectWidth(os.Stdout.Fd())
	}

	widths := columnWidths(width)

	if !p.Plain {
		header := row(widths, "State", "Action", "Package", "Section", "Version")
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, strings.Repeat("-", len([]rune(header)))); err != nil {
			return err
		}
	}

	for _, r := range store.Rows() {
		var line string

		switch {
		case r.IsHeader() && p.Plain:
			continue
		case r.IsHeader():
			line = "-- " + r.Attrs.Name
		default:
			line = row(widths,
				r.Attrs.CurrentState,
				r.Attrs.SelectedState,
				r.Attrs.Name,
				r.Attrs.Section,
				r.Attrs.Version,
			)
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func columnWidths(total int) [5]int {
	var widths [5]int

	// One separating space between columns.
	usable := total - (len(widths) - 1)
	if usable < len(widths) {
		usable = len(widths)
	}

	sum := 0
	for _, weight := range columnWeights {
		sum += weight
	}

	for i, weight := range columnWeights {
		widths[i] = usable * weight / sum
		if widths[i] < 1 {
			widths[i] = 1
		}
	}

	return widths
}

func row(widths [5]int, cells ...string) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = stringutil.PadCell(cell, widths[i])
	}

	return strings.TrimRight(strings.Join(padded, " "), " ")
}
