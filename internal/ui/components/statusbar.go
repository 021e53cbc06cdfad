// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leoprime/internal/ui/styles"
	"github.com/jeranaias/leoprime/internal/util"
)

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are shown when nothing else needs the status bar.
var DefaultShortcuts = []Shortcut{
	{"enter", "send"},
	{"esc", "abort"},
	{"ctrl+d", "dashboard"},
	{"f1-f4", "platform"},
	{"ctrl+y", "copy"},
	{"/help", "commands"},
	{"ctrl+c", "quit"},
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows key hints, or a transient notice in their place.
type StatusBar struct {
	Shortcuts []Shortcut
	Notice    string
	IsError   bool
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the default hints.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Shortcuts: DefaultShortcuts, Width: 80, theme: theme}
}

// SetNotice replaces the hints until ClearNotice.
func (s *StatusBar) SetNotice(text string, isError bool) {
	s.Notice = text
	s.IsError = isError
}

// ClearNotice restores the hints.
func (s *StatusBar) ClearNotice() {
	s.Notice = ""
	s.IsError = false
}

// View renders the bar. Hints that do not fit are dropped from the end.
func (s *StatusBar) View() string {
	t := s.theme
	if s.Notice != "" {
		text := util.TruncateWidth(s.Notice, max(s.Width, 4))
		if s.IsError {
			return styles.RenderError(text)
		}
		return t.StatusBar.Render(text)
	}

	sep := t.ShortcutDesc.Render(" · ")
	var parts []string
	used := 0
	for _, sc := range s.Shortcuts {
		part := t.ShortcutKey.Render(sc.Key) + " " + t.ShortcutDesc.Render(sc.Desc)
		w := lipgloss.Width(part)
		if len(parts) > 0 {
			w += lipgloss.Width(sep)
		}
		if used+w > s.Width {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, sep)
}
