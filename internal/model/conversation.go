// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxMessages is the maximum number of messages to keep in conversation history.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the chat of one run. It is never written to disk.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`

	Model string `json:"model"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// NewConversationWithModel creates a new conversation with a specific model.
func NewConversationWithModel(model string) *Conversation {
	conv := NewConversation()
	conv.Model = model
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage adds a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.pruneOldMessages()
}

// AddUserMessage adds a user message and returns it.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddModelMessage adds an empty streaming model message and returns it.
func (c *Conversation) AddModelMessage() *Message {
	msg := NewModelMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage adds a system notice and returns it.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddImageMessage adds a generated visual and returns it.
func (c *Conversation) AddImageMessage(caption, path, mime string) *Message {
	msg := NewImageMessage(caption, path, mime)
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastModelMessage returns the most recent finished model text message.
func (c *Conversation) GetLastModelMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		msg := c.Messages[i]
		if msg.Role == RoleModel && msg.Modality == ModalityText && !msg.IsStreaming {
			return msg
		}
	}
	return nil
}

// GetLastUserMessage returns the most recent user message, or nil.
func (c *Conversation) GetLastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// AppendToLast streams a token into the last message.
func (c *Conversation) AppendToLast(token string) {
	if last := c.GetLastMessage(); last != nil {
		last.AppendToken(token)
	}
}

// FinalizeLast ends streaming on the last message.
func (c *Conversation) FinalizeLast() {
	if last := c.GetLastMessage(); last != nil {
		last.FinalizeStream()
	}
}

// RemoveMessage deletes a message by ID.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// ClearHistory removes all messages.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// PROVIDER HISTORY
// =============================================================================

// History returns the messages replayed to the provider, oldest first.
func (c *Conversation) History() []*Message {
	out := make([]*Message, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.InHistory() {
			out = append(out, msg)
		}
	}
	return out
}

// Transcript renders the provider history as "role: text" lines.
func (c *Conversation) Transcript() string {
	var sb strings.Builder
	for _, msg := range c.History() {
		sb.WriteString(msg.Role.String())
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// pruneOldMessages keeps system notices and the most recent MaxMessages
// other messages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}

	var systemMessages, otherMessages []*Message
	for _, msg := range c.Messages {
		if msg.Role == RoleSystem {
			systemMessages = append(systemMessages, msg)
		} else {
			otherMessages = append(otherMessages, msg)
		}
	}
	if len(otherMessages) > MaxMessages {
		otherMessages = otherMessages[len(otherMessages)-MaxMessages:]
	}

	c.Messages = make([]*Message, 0, len(systemMessages)+len(otherMessages))
	c.Messages = append(c.Messages, systemMessages...)
	c.Messages = append(c.Messages, otherMessages...)
}
