// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar of the main pane.
type Header struct {
	Platform model.Platform
	Loading  bool
	Width    int
	// Pulse is the activity dot frame index, advanced by the caller.
	Pulse int
	theme *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Platform: model.PlatformEnterprise,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// dot renders the activity indicator.
func (h *Header) dot() string {
	if !h.Loading {
		return h.theme.DotIdle.Render(styles.StatusIndicators.Idle)
	}
	frames := styles.PulseSpinner.Frames
	return h.theme.DotActive.Render(frames[h.Pulse%len(frames)])
}

// Tabs renders the platform selector with function-key hints.
func (h *Header) Tabs() string {
	tabs := make([]string, 0, len(model.Platforms))
	for i, p := range model.Platforms {
		label := "F" + string(rune('1'+i)) + " " + p.Label()
		if p == h.Platform {
			tabs = append(tabs, h.theme.PlatformOn.Render(label))
		} else {
			tabs = append(tabs, h.theme.PlatformTab.Render(label))
		}
	}
	return strings.Join(tabs, "")
}

// View renders the header. Tabs are dropped when they do not fit.
func (h *Header) View() string {
	width := max(h.Width, 20)

	title := h.theme.HeaderEyebrow.Render("SECURE NODE") + "\n" +
		h.theme.HeaderTitle.Render("LEO PRIME") + " " + h.dot()

	tabs := h.Tabs()
	gap := width - lipgloss.Width(title) - lipgloss.Width(tabs)
	var row string
	if gap >= 2 {
		tabs = lipgloss.PlaceVertical(2, lipgloss.Bottom, tabs)
		row = lipgloss.JoinHorizontal(lipgloss.Bottom, title, strings.Repeat(" ", gap), tabs)
	} else {
		row = title
	}
	return h.theme.Header.Width(width).Render(row)
}
