// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# pkgview

## Navigation

| Key | Action |
|-----|--------|
| j/k, arrows | move cursor |
| J/K | page down / up |
| space | toggle selection |
| enter | show package details |
| m | show applicable actions |

## Marking

| Key | Action |
|-----|--------|
| i | mark for install |
| r | mark for removal |
| p | mark for purge |
| c | cancel pending action (keep) |
| h | hold at current version |
| u / U | undo / redo |

## View

| Key | Action |
|-----|--------|
| / | edit the limit expression |
| g | cycle grouping (flat, sections, status) |
| ? | toggle this help |
| q | quit |

Limits are space-separated terms, all of which must match:
` + "`installed`, `notinstalled`, `upgradable`, `broken`, `held`, `virtual`, `all`, `~s<section>`, `!term`" + `,
or any other word as a name substring.
`

// renderHelp renders the help overlay, falling back to the raw markdown if
// the renderer cannot be built.
func renderHelp(width int) string {
	if width <= 0 || width > 100 {
		width = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}

	rendered, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}

	return rendered
}
