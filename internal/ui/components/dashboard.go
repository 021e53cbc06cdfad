// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/telemetry"
	"github.com/jeranaias/leoprime/internal/ui/styles"
)

// =============================================================================
// DASHBOARD OVERLAY
// =============================================================================

// minCardWidth fits the longest card label.
const minCardWidth = 12

// Dashboard is the status overlay toggled with Ctrl+D.
type Dashboard struct {
	Evolution model.EvolutionState
	Chart     []telemetry.ChartPoint
	ModelName string
	Width     int
	theme     *styles.Theme
}

// NewDashboard creates a dashboard.
func NewDashboard(theme *styles.Theme) *Dashboard {
	return &Dashboard{
		Evolution: model.InitialEvolution(),
		ModelName: "Gemini 3.0",
		Width:     80,
		theme:     theme,
	}
}

func (d *Dashboard) card(label, value string, width int) string {
	t := d.theme
	return t.Card.Width(width).Render(t.CardLabel.Render(label) + "\n" + t.CardValue.Render(value))
}

// View renders the overlay.
func (d *Dashboard) View() string {
	t := d.theme
	width := max(d.Width, 40)
	inner := width - 6 // double border + padding

	// four across when each card can hold its label, otherwise one per row
	cardWidth := inner/4 - 2
	stacked := cardWidth < minCardWidth
	if stacked {
		cardWidth = inner - 2
	}
	cards := []string{
		d.card("NEURAL LOAD", fmtWhole(d.Evolution.NetworkSaturation), cardWidth),
		d.card("SYNAPSE LINK", "ACTIVE", cardWidth),
		d.card("ARIA SYNC", "STABLE", cardWidth),
		d.card("MODEL", d.ModelName, cardWidth),
	}
	var row string
	if stacked {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	effs := make([]float64, len(d.Chart))
	sats := make([]float64, len(d.Chart))
	for i, p := range d.Chart {
		effs[i] = p.Efficiency
		sats[i] = p.Saturation
	}
	chartWidth := inner - 12
	var chart strings.Builder
	chart.WriteString(t.SectionTitle.Render("ASSIMILATION MAP"))
	chart.WriteString("\n")
	chart.WriteString(t.CardLabel.Render("efficiency  "))
	chart.WriteString(t.Sparkline.Render(telemetry.Sparkline(effs, chartWidth)))
	chart.WriteString("\n")
	chart.WriteString(t.CardLabel.Render("saturation  "))
	chart.WriteString(t.Sparkline.Render(telemetry.Sparkline(sats, chartWidth)))
	if n := len(d.Chart); n > 0 {
		chart.WriteString("\n")
		chart.WriteString(t.Muted.Render(strings.Repeat(" ", 12) + d.Chart[0].Time + " → " + d.Chart[n-1].Time))
	}

	hint := t.Muted.Render("ctrl+d close")
	body := lipgloss.JoinVertical(lipgloss.Left, row, chart.String(), "", hint)
	return t.Dashboard.Width(width - 2).Render(body)
}
