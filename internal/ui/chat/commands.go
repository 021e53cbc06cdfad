// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/gemini"
	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/util"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command.
type CommandHandler func(m Model, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names to their handlers.
var commandHandlers = map[string]CommandHandler{
	"help":      handleHelpCommand,
	"h":         handleHelpCommand,
	"?":         handleHelpCommand,
	"platform":  handlePlatformCommand,
	"p":         handlePlatformCommand,
	"dashboard": handleDashboardCommand,
	"dash":      handleDashboardCommand,
	"visual":    handleVisualCommand,
	"v":         handleVisualCommand,
	"copy":      handleCopyCommand,
	"clear":     handleClearCommand,
	"c":         handleClearCommand,
	"quit":      handleQuitCommand,
	"q":         handleQuitCommand,
	"exit":      handleQuitCommand,
}

// commandHelp is shown by /help in display order.
var commandHelp = []struct{ Usage, Desc string }{
	{"/platform <enterprise|android|ios|pc>", "switch device emulation"},
	{"/dashboard", "toggle the status overlay"},
	{"/visual <subject>", "synthesize a holographic visual"},
	{"/copy", "copy the last reply"},
	{"/clear", "purge the conversation buffer"},
	{"/help", "show this list"},
	{"/quit", "leave LEO PRIME"},
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// handleCommand dispatches a slash command.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	handler, ok := commandHandlers[name]
	if !ok {
		cmd := m.notify(fmt.Sprintf("Unknown command: /%s (try /help)", name), true)
		return m, cmd
	}
	return handler(m, parts[1:])
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	var b strings.Builder
	b.WriteString("Commands:")
	for _, c := range commandHelp {
		fmt.Fprintf(&b, "\n  %-38s %s", c.Usage, c.Desc)
	}
	b.WriteString("\nKeys:")
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		fmt.Fprintf(&b, "\n  %-38s %s", h.Key, h.Desc)
	}
	m.sess.AddNotice(b.String())
	m.follow = true
	m.refresh()
	return m, nil
}

func handlePlatformCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		cmd := m.notify("Usage: /platform <enterprise|android|ios|pc>", true)
		return m, cmd
	}
	p, err := model.ParsePlatform(args[0])
	if err != nil {
		cmd := m.notify(err.Error(), true)
		return m, cmd
	}
	return m.switchPlatform(p)
}

func handleDashboardCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	m.sess.ToggleDashboard()
	m.refresh()
	return m, nil
}

func handleCopyCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	return m.copyLastReply()
}

func handleClearCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	if m.sess.Loading() {
		cmd := m.notify("Cannot purge while a directive is in flight", true)
		return m, cmd
	}
	m.sess.Clear()
	m.transcript.Reset()
	m.refresh()
	return m, nil
}

func handleQuitCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	return m.quit()
}

func handleVisualCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	subject := util.CleanInput(strings.Join(args, " "))
	switch {
	case subject == "":
		cmd := m.notify("Usage: /visual <subject>", true)
		return m, cmd
	case m.provider == nil:
		cmd := m.notify(faultNotice(gemini.ErrNotConfigured), true)
		return m, cmd
	case m.visualPending:
		cmd := m.notify("Visual synthesis already running", true)
		return m, cmd
	}

	dir, err := m.cfg.VisualPath()
	if err != nil {
		cmd := m.notify(err.Error(), true)
		return m, cmd
	}

	m.visualPending = true
	m.sess.AddLog("[VISUAL]: Synthesizing holographic render...")
	m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.visualCancel.set(cancel)
	provider := m.provider
	path := filepath.Join(dir, uuid.NewString())
	return m, func() tea.Msg {
		img, err := provider.Visual(ctx, subject)
		if err != nil {
			return VisualMsg{Caption: subject, Err: err}
		}
		saved, err := img.Save(path)
		return VisualMsg{Caption: subject, Path: saved, MIMEType: img.MIMEType, Err: err}
	}
}

func (m Model) handleVisual(msg VisualMsg) (tea.Model, tea.Cmd) {
	m.visualPending = false
	m.visualCancel.cancel()
	if msg.Err != nil {
		m.logger.Error("visual failed", zap.Error(msg.Err))
		m.sess.AddLog("[FAULT]: Holographic synthesis failed.")
		m.refresh()
		cmd := m.notify(faultNotice(msg.Err), true)
		return m, cmd
	}
	m.sess.AddVisual(msg.Caption, msg.Path, msg.MIMEType)
	m.follow = true
	m.refresh()
	cmd := m.notify("Visual saved to "+msg.Path, false)
	return m, cmd
}

// =============================================================================
// CLIPBOARD
// =============================================================================

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	reply := m.sess.LastReply()
	if reply == "" {
		cmd := m.notify("No reply to copy", true)
		return m, cmd
	}
	if err := writeClipboard(reply); err != nil {
		m.logger.Warn("clipboard unavailable", zap.Error(err))
		m.sess.AddLog("[FAULT]: Clipboard relay unavailable.")
		m.refresh()
		cmd := m.notify("Failed to copy: "+err.Error(), true)
		return m, cmd
	}

	var size string
	if n := len(reply); n < 1000 {
		size = fmt.Sprintf("%d chars", n)
	} else {
		size = fmt.Sprintf("%.1fK chars", float64(n)/1000)
	}
	cmd := m.notify("Copied reply ("+size+")", false)
	return m, cmd
}
