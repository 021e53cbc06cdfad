// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Amber - Brand color, particle field, active selections
var Amber = lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#EAB308"}

// AmberBright - Hover and emphasis
var AmberBright = lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#FACC15"}

// AmberDeep - Dim amber for borders and inactive marks
var AmberDeep = lipgloss.AdaptiveColor{Light: "#FDE68A", Dark: "#713F12"}

// Emerald - Live link indicators
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}

// Rose - Faults
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Void - Main background
var Void = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#020202"}

// Surface - Sidebar and panels
var Surface = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#050505"}

// SurfaceBright - Cards and message bubbles
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#080808"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#111111"}

// OverlayBright - Borders that need to be seen
var OverlayBright = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#1E293B"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94A3B8"}

// TextMuted - Captions, log lines
var TextMuted = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#64748B"}

// TextFaint - Hints
var TextFaint = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#334155"}

// TextInverse - Text on amber
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#020202"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text indicators for status states, so state
// is readable without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Active  string
	Idle    string
}

// StatusIndicators are the ASCII-safe indicators.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Active:  "●",
	Idle:    "○",
}

// RenderError renders an error line with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderSuccess renders a success line with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderWarning renders a warning line with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}
