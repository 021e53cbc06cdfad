// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/leoprime/internal/model"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit    key.Binding
	Cancel    key.Binding
	Dashboard key.Binding
	Copy      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Quit      key.Binding

	// Platform selects a device skin, indexed like model.Platforms.
	Platform []key.Binding
	// Directive sends a quick directive, indexed like session.QuickDirectives.
	Directive []key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send directive"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "abort directive"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "toggle dashboard"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy last reply"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}

	fkeys := []string{"f1", "f2", "f3", "f4"}
	for i, p := range model.Platforms {
		km.Platform = append(km.Platform, key.NewBinding(
			key.WithKeys(fkeys[i]),
			key.WithHelp(fkeys[i], p.Label()),
		))
	}
	km.Directive = []key.Binding{
		key.NewBinding(key.WithKeys("alt+1"), key.WithHelp("alt+1", "deep code scan")),
		key.NewBinding(key.WithKeys("alt+2"), key.WithHelp("alt+2", "interface sync")),
	}
	return km
}

// ShortHelp returns the bindings shown by /help, in display order.
func (k KeyMap) ShortHelp() []key.Binding {
	out := []key.Binding{k.Submit, k.Cancel, k.Dashboard, k.Copy, k.PageUp, k.PageDown}
	out = append(out, k.Platform...)
	out = append(out, k.Directive...)
	return append(out, k.Quit)
}
