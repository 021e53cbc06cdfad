// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/jeranaias/leoprime/internal/model"
	"github.com/jeranaias/leoprime/internal/ui/styles"
)

// StreamCursor trails a reply that is still arriving.
const StreamCursor = "▌"

// =============================================================================
// TRANSCRIPT COMPONENT
// =============================================================================

// Transcript renders the conversation. Finished messages are cached per
// width because glamour rendering is the slowest part of a frame.
type Transcript struct {
	Messages []*model.Message
	Width    int
	// Markdown renders model replies through glamour.
	Markdown bool

	theme    *styles.Theme
	renderer *glamour.TermRenderer
	rendered map[string]string
}

// NewTranscript creates an empty transcript.
func NewTranscript(theme *styles.Theme) *Transcript {
	return &Transcript{
		Width:    80,
		Markdown: true,
		theme:    theme,
		rendered: make(map[string]string),
	}
}

// SetWidth changes the wrap width and drops cached renders.
func (t *Transcript) SetWidth(width int) {
	if width == t.Width {
		return
	}
	t.Width = width
	t.renderer = nil
	t.rendered = make(map[string]string)
}

// SetMessages replaces the message list.
func (t *Transcript) SetMessages(msgs []*model.Message) {
	t.Messages = msgs
}

// Reset drops cached renders, for example after a theme change.
func (t *Transcript) Reset() {
	t.renderer = nil
	t.rendered = make(map[string]string)
}

// View renders every message separated by blank lines.
func (t *Transcript) View() string {
	blocks := make([]string, 0, len(t.Messages))
	for _, msg := range t.Messages {
		if msg == nil {
			continue
		}
		if !msg.IsStreaming {
			if cached, ok := t.rendered[msg.ID]; ok {
				blocks = append(blocks, cached)
				continue
			}
		}
		block := t.renderMessage(msg)
		if !msg.IsStreaming {
			t.rendered[msg.ID] = block
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) bodyWidth() int {
	return max(t.Width-4, 10)
}

func (t *Transcript) renderMessage(msg *model.Message) string {
	th := t.theme
	stamp := th.Timestamp.Render(msg.Timestamp.Format("15:04:05"))

	switch {
	case msg.Role == model.RoleSystem:
		return th.SystemLine.Width(t.bodyWidth()).Render("// " + msg.Content)

	case msg.Role == model.RoleUser:
		label := th.RoleUser.Render(strings.ToUpper(model.RoleUser.DisplayName())) + " " + stamp
		body := th.UserBubble.Width(t.bodyWidth()).Render(msg.Content)
		return label + "\n" + body

	case msg.Modality == model.ModalityImage:
		label := th.RoleModel.Render(model.RoleModel.DisplayName()) + " " + th.VisualBadge.Render("VISUAL") + " " + stamp
		lines := []string{msg.Content}
		if msg.ImagePath != "" {
			lines = append(lines, th.Muted.Render(msg.ImagePath))
		}
		return label + "\n" + th.ModelBubble.Width(t.bodyWidth()).Render(strings.Join(lines, "\n"))

	default:
		label := th.RoleModel.Render(model.RoleModel.DisplayName()) + " " + stamp
		var body string
		if msg.IsStreaming {
			body = msg.GetDisplayContent() + th.DotActive.Render(StreamCursor)
		} else {
			body = t.renderMarkdown(msg.Content)
		}
		return label + "\n" + th.ModelBubble.Width(t.bodyWidth()).Render(body)
	}
}

// renderMarkdown renders a reply with glamour, falling back to the raw text.
func (t *Transcript) renderMarkdown(content string) string {
	if !t.Markdown {
		return content
	}
	if t.renderer == nil {
		style := glamourstyles.DarkStyle
		switch {
		case t.theme.ColorProfile == termenv.Ascii:
			style = glamourstyles.AsciiStyle
		case !t.theme.IsDark:
			style = glamourstyles.LightStyle
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(t.bodyWidth()-2),
		)
		if err != nil {
			return content
		}
		t.renderer = r
	}
	out, err := t.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
