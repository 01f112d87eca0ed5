// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines the visual styling of the package list TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the cached lipgloss styles of the list surface.
type Styles struct {
	// Color palette
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color

	// Component styles
	Header     lipgloss.Style
	Footer     lipgloss.Style
	GroupTitle lipgloss.Style
	Cursor     lipgloss.Style
	Selected   lipgloss.Style
	MutedText  lipgloss.Style
	ErrorText  lipgloss.Style
	LimitInput lipgloss.Style
}

// New creates the default Tokyo Night styling.
func New() *Styles {
	primary := lipgloss.Color("#7aa2f7")
	muted := lipgloss.Color("#565f89")
	errorColor := lipgloss.Color("#f7768e")
	background := lipgloss.Color("#1a1b26")
	foreground := lipgloss.Color("#c0caf5")

	return &Styles{
		Primary: primary,
		Muted:   muted,
		Error:   errorColor,

		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		GroupTitle: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(primary).
			Foreground(background),
		Selected: lipgloss.NewStyle().
			Foreground(foreground).
			Bold(true),
		MutedText: lipgloss.NewStyle().
			Foreground(muted),
		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),
		LimitInput: lipgloss.NewStyle().
			Foreground(foreground).
			Background(lipgloss.Color("#24283b")).
			Padding(0, 1),
	}
}

// Highlight returns a style rendering text in the given color.
func (s *Styles) Highlight(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
