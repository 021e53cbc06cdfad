// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leoprime/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// fmtPercent formats a percentage with one decimal place.
func fmtPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// fmtWhole formats a percentage without decimals.
func fmtWhole(p float64) string {
	return strconv.Itoa(int(p+0.5)) + "%"
}

// labelValue lays out "label ..... value" across width cells.
func labelValue(label, value string, width int, labelStyle, valueStyle lipgloss.Style) string {
	gap := width - util.StringWidth(label) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	return labelStyle.Render(label) + strings.Repeat(" ", gap) + valueStyle.Render(value)
}

// fitLines truncates each line to width and pads or cuts to height lines.
func fitLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = util.TruncateWidth(line, width)
		}
	}
	return strings.Join(lines, "\n")
}
