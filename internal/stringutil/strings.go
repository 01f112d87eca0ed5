// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stringutil provides string helpers shared by the limit language
// and the console table printer.
package stringutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ContainsIgnoreCase checks if text contains substr (case-insensitive).
func ContainsIgnoreCase(text, substr string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(substr))
}

// PadCell fits text into a terminal column of the given display width,
// truncating with an ellipsis or right-padding with spaces as needed.
func PadCell(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if runewidth.StringWidth(text) > width {
		return runewidth.Truncate(text, width, "…")
	}

	return runewidth.FillRight(text, width)
}
