// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// FRAME STYLES
	// ==========================================================================

	App     lipgloss.Style
	Main    lipgloss.Style
	Chrome  lipgloss.Style
	Divider lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar        lipgloss.Style
	SidebarBrand   lipgloss.Style
	SidebarVersion lipgloss.Style
	SectionTitle   lipgloss.Style
	MetricLabel    lipgloss.Style
	MetricValue    lipgloss.Style
	LogLine        lipgloss.Style
	LogLineNewest  lipgloss.Style
	Sparkline      lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header        lipgloss.Style
	HeaderEyebrow lipgloss.Style
	HeaderTitle   lipgloss.Style
	DotActive     lipgloss.Style
	DotIdle       lipgloss.Style
	PlatformTab   lipgloss.Style
	PlatformOn    lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble  lipgloss.Style
	ModelBubble lipgloss.Style
	SystemLine  lipgloss.Style
	RoleUser    lipgloss.Style
	RoleModel   lipgloss.Style
	Timestamp   lipgloss.Style
	VisualBadge lipgloss.Style

	// ==========================================================================
	// INPUT STYLES
	// ==========================================================================

	InputBox     lipgloss.Style
	InputPrompt  lipgloss.Style
	Thinking     lipgloss.Style
	ThinkingTime lipgloss.Style

	// ==========================================================================
	// WELCOME AND DASHBOARD STYLES
	// ==========================================================================

	WelcomeMark  lipgloss.Style
	WelcomeTitle lipgloss.Style
	Directive    lipgloss.Style
	DirectiveKey lipgloss.Style
	Dashboard    lipgloss.Style
	Card         lipgloss.Style
	CardLabel    lipgloss.Style
	CardValue    lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	ErrorStyle   lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme. mode is "auto", "dark" or "light"; anything
// else is treated as auto.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Foreground(TextPrimary)
	t.Main = lipgloss.NewStyle().Padding(0, 1)
	t.Chrome = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayBright).
		Padding(0, 1)
	t.Divider = lipgloss.NewStyle().Foreground(Overlay)

	t.Sidebar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(OverlayBright).
		Padding(0, 1)
	t.SidebarBrand = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.SidebarVersion = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.SectionTitle = lipgloss.NewStyle().Foreground(TextMuted).Bold(true).MarginTop(1)
	t.MetricLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.MetricValue = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.LogLine = lipgloss.NewStyle().Foreground(TextFaint)
	t.LogLineNewest = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Sparkline = lipgloss.NewStyle().Foreground(Amber)

	t.Header = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(Overlay)
	t.HeaderEyebrow = lipgloss.NewStyle().Foreground(TextMuted)
	t.HeaderTitle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.DotActive = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.DotIdle = lipgloss.NewStyle().Foreground(Emerald)
	t.PlatformTab = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.PlatformOn = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Bold(true).
		Padding(0, 1)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(Amber).
		Padding(0, 1)
	t.ModelBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(OverlayBright).
		Padding(0, 1)
	t.SystemLine = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.RoleUser = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.RoleModel = lipgloss.NewStyle().Foreground(AmberBright).Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextFaint)
	t.VisualBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Padding(0, 1)

	t.InputBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AmberDeep).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.Thinking = lipgloss.NewStyle().Foreground(Amber).Italic(true)
	t.ThinkingTime = lipgloss.NewStyle().Foreground(TextMuted)

	t.WelcomeMark = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.WelcomeTitle = lipgloss.NewStyle().Foreground(TextMuted).Bold(true)
	t.Directive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayBright).
		Padding(0, 1)
	t.DirectiveKey = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.Dashboard = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(0, 2)
	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayBright).
		Padding(0, 1)
	t.CardLabel = lipgloss.NewStyle().Foreground(TextMuted)
	t.CardValue = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Amber)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// String returns the mode name.
func (m LayoutMode) String() string {
	switch m {
	case LayoutNarrow:
		return "narrow"
	case LayoutMedium:
		return "medium"
	default:
		return "wide"
	}
}
