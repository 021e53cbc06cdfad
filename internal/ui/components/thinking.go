// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/leoprime/internal/ui/styles"
)

// ThinkingText is shown while a directive is in flight.
const ThinkingText = "Synthesizing Neural Buffer..."

// =============================================================================
// THINKING INDICATOR
// =============================================================================

// Thinking is the spinner line under the transcript.
type Thinking struct {
	spinner spinner.Model
	Started time.Time
	theme   *styles.Theme
}

// NewThinking creates an indicator using the synapse frames.
func NewThinking(theme *styles.Theme) *Thinking {
	s := spinner.New(
		spinner.WithSpinner(spinner.Spinner{
			Frames: styles.SynapseSpinner.Frames,
			FPS:    styles.SynapseSpinner.Duration(),
		}),
		spinner.WithStyle(theme.Thinking),
	)
	return &Thinking{spinner: s, theme: theme}
}

// Start resets the elapsed timer and returns the first tick.
func (t *Thinking) Start(now time.Time) tea.Cmd {
	t.Started = now
	return t.spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (t *Thinking) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return cmd
}

// View renders the spinner, caption and elapsed time.
func (t *Thinking) View(now time.Time) string {
	elapsed := now.Sub(t.Started).Truncate(100 * time.Millisecond)
	if t.Started.IsZero() || elapsed < 0 {
		elapsed = 0
	}
	return t.spinner.View() + " " + t.theme.Thinking.Render(ThinkingText) + " " +
		t.theme.ThinkingTime.Render(elapsed.String())
}
