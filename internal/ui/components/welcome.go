// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leoprime/internal/session"
	"github.com/jeranaias/leoprime/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is shown in place of the transcript while it is empty.
type Welcome struct {
	Directives []session.Directive
	Width      int
	Height     int
	theme      *styles.Theme
}

// NewWelcome creates a welcome screen offering the quick directives.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{
		Directives: session.QuickDirectives,
		Width:      80,
		theme:      theme,
		Height:     10,
	}
}

// View renders the mark, the empty-state caption and the directive chips,
// centered in Width x Height.
func (w *Welcome) View() string {
	t := w.theme
	mark := t.WelcomeMark.Render("◈")
	caption := t.WelcomeTitle.Render("READY FOR INPUT")

	chips := make([]string, 0, len(w.Directives))
	for i, d := range w.Directives {
		key := t.DirectiveKey.Render("alt+" + strconv.Itoa(i+1))
		chips = append(chips, t.Directive.Render(key+" "+d.Label))
	}
	var row string
	if len(chips) > 0 {
		row = lipgloss.JoinHorizontal(lipgloss.Top, chips...)
		if lipgloss.Width(row) > w.Width {
			row = lipgloss.JoinVertical(lipgloss.Center, chips...)
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Center, mark, caption, "", row)
	return lipgloss.Place(max(w.Width, 1), max(w.Height, 1), lipgloss.Center, lipgloss.Center, body)
}
