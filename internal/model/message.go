// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "Operator"
	case RoleModel:
		return "LEO"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MODALITY
// =============================================================================

// Modality is the kind of payload a message carries.
type Modality string

const (
	ModalityText   Modality = "text"
	ModalityImage  Modality = "image"
	ModalityData   Modality = "data"
	ModalitySystem Modality = "system"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Modality  Modality  `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Content string `json:"content"`

	// Visual messages point at the generated image on disk.
	ImagePath string `json:"image_path,omitempty"`
	ImageMIME string `json:"image_mime,omitempty"`

	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`

	Duration time.Duration `json:"duration_ns,omitempty"`
}

// NewMessage creates a new text message with a generated ID.
func NewMessage(role Role, content string) *Message {
	modality := ModalityText
	if role == RoleSystem {
		modality = ModalitySystem
	}
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Modality:  modality,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewModelMessage creates an empty model message ready to stream into.
func NewModelMessage() *Message {
	msg := NewMessage(RoleModel, "")
	msg.IsStreaming = true
	return msg
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewImageMessage creates a model message for a generated visual.
func NewImageMessage(caption, path, mime string) *Message {
	msg := NewMessage(RoleModel, caption)
	msg.Modality = ModalityImage
	msg.ImagePath = path
	msg.ImageMIME = mime
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendToken appends a token to a streaming message.
func (m *Message) AppendToken(token string) {
	if m.IsStreaming {
		m.streamContent.WriteString(token)
	}
}

// FinalizeStream moves streamed text into Content and ends streaming.
func (m *Message) FinalizeStream() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
	m.Duration = time.Since(m.Timestamp)
}

// GetDisplayContent returns the content to display (streaming or final).
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// Preview returns a truncated preview of the message content.
func (m *Message) Preview(maxLen int) string {
	content := m.GetDisplayContent()
	runes := []rune(content)
	if maxLen <= 3 || len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// InHistory reports whether the message is replayed to the provider. Only
// finished user and model text is; visuals and system notices stay local.
func (m *Message) InHistory() bool {
	if m.IsStreaming || m.Role == RoleSystem {
		return false
	}
	return m.Modality == ModalityText || m.Modality == ModalityData
}
