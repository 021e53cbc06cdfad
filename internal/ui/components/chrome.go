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
// PLATFORM CHROME
// =============================================================================

// Chrome frames the main pane like the emulated device.
type Chrome struct {
	Platform model.Platform
	Battery  int
	theme    *styles.Theme
}

// NewChrome creates a chrome frame.
func NewChrome(theme *styles.Theme) *Chrome {
	return &Chrome{Platform: model.PlatformEnterprise, Battery: 100, theme: theme}
}

// Rows returns how many rows the chrome adds above and below content.
func (c *Chrome) Rows() (top, bottom int) {
	switch {
	case c.Platform.IsMobile():
		return 1, 1
	case c.Platform == model.PlatformPC:
		return 1, 0
	default:
		return 0, 0
	}
}

// Top renders the bar above content at the given width.
func (c *Chrome) Top(width int) string {
	t := c.theme
	switch {
	case c.Platform.IsMobile():
		left := t.HeaderTitle.Render("12:00")
		right := t.Muted.Render("5G ") + t.MetricValue.Render(fmtWhole(float64(c.Battery)))
		gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
		return left + strings.Repeat(" ", gap) + right
	case c.Platform == model.PlatformPC:
		title := t.Muted.Render("leo-prime.exe")
		buttons := t.Muted.Render("─ □ ×")
		gap := max(width-lipgloss.Width(title)-lipgloss.Width(buttons), 1)
		return title + strings.Repeat(" ", gap) + buttons
	}
	return ""
}

// Bottom renders the bar below content at the given width.
func (c *Chrome) Bottom(width int) string {
	if !c.Platform.IsMobile() {
		return ""
	}
	bar := c.theme.Muted.Render("━━━━━━━━")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar)
}

// Wrap surrounds content with the device bars.
func (c *Chrome) Wrap(content string, width int) string {
	parts := make([]string, 0, 3)
	if top := c.Top(width); top != "" {
		parts = append(parts, top)
	}
	parts = append(parts, content)
	if bottom := c.Bottom(width); bottom != "" {
		parts = append(parts, bottom)
	}
	return strings.Join(parts, "\n")
}

// ShowSidebar reports whether the platform leaves room for the sidebar.
func ShowSidebar(p model.Platform, width int) bool {
	return !p.IsMobile() && width >= 90
}
