// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// SynapseSpinner is shown while a directive is being synthesized.
var SynapseSpinner = SpinnerConfig{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    12,
}

// PulseSpinner is the header activity dot.
var PulseSpinner = SpinnerConfig{
	Frames: []string{"●", "◉", "○", "◉"},
	FPS:    4,
}

// =============================================================================
// METERS
// =============================================================================

// Meter characters for load bars.
var (
	MeterFull    = "█"
	MeterEmpty   = "░"
	MeterPartial = []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉"}
)

// RenderMeter draws a horizontal bar width cells wide filled to percent (0-100).
func RenderMeter(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))

	filled := float64(width) * percent / 100
	full := int(filled)
	partial := int((filled - float64(full)) * float64(len(MeterPartial)+1))

	var sb strings.Builder
	sb.Grow(width * 3)
	for i := 0; i < full && i < width; i++ {
		sb.WriteString(MeterFull)
	}
	if full < width && partial > 0 {
		sb.WriteString(MeterPartial[partial-1])
		full++
	}
	for i := full; i < width; i++ {
		sb.WriteString(MeterEmpty)
	}
	return sb.String()
}
