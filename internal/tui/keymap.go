// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the package list screen.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Select   key.Binding
	Activate key.Binding
	Menu     key.Binding

	Install key.Binding
	Remove  key.Binding
	Purge   key.Binding
	Keep    key.Binding
	Hold    key.Binding

	Undo     key.Binding
	Redo     key.Binding
	Limit    key.Binding
	Grouping key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("K", "pgup"),
			key.WithHelp("K", "prev page"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("J", "pgdown"),
			key.WithHelp("J", "next page"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle select"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "actions"),
		),
		Install: key.NewBinding(
			key.WithKeys("i", "+"),
			key.WithHelp("i", "install"),
		),
		Remove: key.NewBinding(
			key.WithKeys("r", "-"),
			key.WithHelp("r", "remove"),
		),
		Purge: key.NewBinding(
			key.WithKeys("p", "_"),
			key.WithHelp("p", "purge"),
		),
		Keep: key.NewBinding(
			key.WithKeys("c", ":"),
			key.WithHelp("c", "keep"),
		),
		Hold: key.NewBinding(
			key.WithKeys("h", "="),
			key.WithHelp("h", "hold"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U", "ctrl+r"),
			key.WithHelp("U", "redo"),
		),
		Limit: key.NewBinding(
			key.WithKeys("/", "l"),
			key.WithHelp("/", "limit"),
		),
		Grouping: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grouping"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
