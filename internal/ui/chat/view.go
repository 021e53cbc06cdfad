// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leoprime/internal/ui/components"
)

// Fixed rows of the main pane.
const (
	inputRows    = 3 // rounded border around one line
	thinkingRows = 1
	statusRows   = 1
	minWelcome   = 7
	minViewport  = 3
)

// =============================================================================
// STATE SYNC AND LAYOUT
// =============================================================================

// sync copies session state into the components.
func (m *Model) sync() {
	platform := m.sess.Platform()
	evo := m.sess.Evolution()
	loading := m.sess.Loading()

	m.header.Platform = platform
	m.header.Loading = loading
	m.chrome.Platform = platform

	m.sidebar.Evolution = evo
	m.sidebar.Log = m.sess.Log()
	m.sidebar.Efficiencies = m.sess.Efficiencies()

	m.dashboard.Evolution = evo
	m.dashboard.Chart = m.sess.Chart()

	m.transcript.SetMessages(m.sess.Messages())
}

// refresh syncs state, recomputes the layout and rebuilds the viewport.
func (m *Model) refresh() {
	m.sync()
	if m.width == 0 || m.height == 0 {
		return
	}
	m.layout()
	m.viewport.SetContent(m.transcript.View())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) layout() {
	m.showSidebar = m.cfg.UI.ShowSidebar && components.ShowSidebar(m.sess.Platform(), m.width)
	m.mainWidth = m.width
	if m.showSidebar {
		m.mainWidth -= components.SidebarWidth
		m.sidebar.Height = m.height
	}
	inner := max(m.mainWidth-2, 10)

	m.header.SetWidth(inner)
	m.status.Width = inner
	m.transcript.SetWidth(inner)
	m.dashboard.Width = inner
	m.input.Width = max(inner-4-lipgloss.Width(m.input.Prompt)-1, 1)

	top, bottom := m.chrome.Rows()
	fixed := top + bottom + lipgloss.Height(m.header.View()) + inputRows + thinkingRows + statusRows
	avail := max(m.height-fixed, 0)

	bandRows := 0
	if m.field.Enabled() {
		if len(m.transcript.Messages) == 0 && !m.sess.Dashboard() {
			bandRows = max(avail-minWelcome, 0)
		} else {
			bandRows = min(m.cfg.Canvas.BandRows, max(avail-minViewport, 0))
		}
	}
	m.field.SetSize(inner, bandRows)

	m.bodyHeight = avail - bandRows
	m.viewport.Width = inner
	m.viewport.Height = max(m.bodyHeight, 1)
	m.welcome.Width = inner
	m.welcome.Height = m.bodyHeight
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing neural link..."
	}
	inner := max(m.mainWidth-2, 10)

	parts := []string{m.header.View()}
	if band := m.field.View(); band != "" {
		parts = append(parts, band)
	}
	if m.bodyHeight > 0 {
		parts = append(parts, m.body(inner))
	}

	thinking := ""
	if m.sess.Loading() {
		thinking = m.thinking.View(time.Now())
	}
	parts = append(parts,
		thinking,
		m.theme.InputBox.Width(inner-2).Render(m.input.View()),
		m.status.View(),
	)

	main := m.theme.Main.Width(m.mainWidth).Render(strings.Join(parts, "\n"))
	main = m.chrome.Wrap(main, m.mainWidth)
	if !m.showSidebar {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
}

func (m Model) body(width int) string {
	height := m.bodyHeight
	var content string
	switch {
	case m.sess.Dashboard():
		content = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.dashboard.View())
	case len(m.transcript.Messages) == 0:
		content = m.welcome.View()
	default:
		content = m.viewport.View()
	}
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}
