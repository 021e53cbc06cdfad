// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/telemetry"
	"github.com/jeranaias/leoprime/internal/ui/styles"
	"github.com/jeranaias/leoprime/internal/util"
)

// SidebarWidth is the sidebar's outer width including its border.
const SidebarWidth = 30

// =============================================================================
// SIDEBAR COMPONENT
// =============================================================================

// Sidebar shows the node status beside the chat on desktop platforms.
type Sidebar struct {
	Evolution    model.EvolutionState
	Log          []string
	Efficiencies []float64
	Height       int
	theme        *styles.Theme
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Evolution: model.InitialEvolution(),
		theme:     theme,
	}
}

// View renders the sidebar at SidebarWidth columns.
func (s *Sidebar) View() string {
	t := s.theme
	inner := SidebarWidth - 3 // right border + horizontal padding

	var b strings.Builder
	b.WriteString(t.SidebarBrand.Render("LEO PRIME"))
	b.WriteString("\n")
	b.WriteString(t.SidebarVersion.Render("Aria Nexus v.Final"))
	b.WriteString("\n")

	b.WriteString(t.SectionTitle.Render("CORE METRICS"))
	b.WriteString("\n")
	evo := s.Evolution
	rows := [][2]string{
		{"Neural Tier", evo.Level},
		{"Storage", evo.Storage},
		{"RAM", evo.RAM},
		{"Efficiency", fmtPercent(evo.Efficiency)},
		{"Saturation", fmtWhole(evo.NetworkSaturation)},
	}
	for _, r := range rows {
		value := util.TruncateWidth(r[1], inner-util.StringWidth(r[0])-1)
		b.WriteString(labelValue(r[0], value, inner, t.MetricLabel, t.MetricValue))
		b.WriteString("\n")
	}
	b.WriteString(t.Sparkline.Render(styles.RenderMeter(inner, evo.NetworkSaturation)))
	b.WriteString("\n")

	b.WriteString(t.SectionTitle.Render("LEGACY LOG"))
	b.WriteString("\n")
	for i, entry := range s.Log {
		style := t.LogLine
		if i == 0 {
			style = t.LogLineNewest
		}
		b.WriteString(style.Render(util.TruncateWidth(entry, inner)))
		b.WriteString("\n")
	}

	b.WriteString(t.SectionTitle.Render("EFFICIENCY"))
	b.WriteString("\n")
	b.WriteString(t.Sparkline.Render(telemetry.Sparkline(s.Efficiencies, inner)))

	body := fitLines(b.String(), inner, max(s.Height, 0))
	style := t.Sidebar.Width(SidebarWidth - 1)
	if s.Height > 0 {
		style = style.Height(s.Height)
	}
	return style.Render(body)
}
