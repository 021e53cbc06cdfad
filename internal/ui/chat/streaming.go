// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SENDER
// =============================================================================

// Sender delivers messages into a running program. *tea.Program
// implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// senderRef lets the streaming goroutine reach the program after New has
// returned a value-copied Model.
type senderRef struct {
	mu sync.RWMutex
	s  Sender
}

func (r *senderRef) set(s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = s
}

func (r *senderRef) send(msg tea.Msg) bool {
	r.mu.RLock()
	s := r.s
	r.mu.RUnlock()
	if s == nil {
		return false
	}
	s.Send(msg)
	return true
}

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// Default batching for streamed tokens.
const (
	DefaultBatchSize = 15
	DefaultMaxFPS    = 30
)

// StreamingBuffer batches tokens so a fast stream does not trigger a
// render per token. Content is released when batchSize tokens have
// accumulated or a frame interval has passed since the last release.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time

	batchSize int
	interval  time.Duration
}

// NewStreamingBuffer creates a buffer with the default batching.
func NewStreamingBuffer() *StreamingBuffer {
	return NewStreamingBufferWithConfig(DefaultBatchSize, DefaultMaxFPS)
}

// NewStreamingBufferWithConfig creates a buffer releasing at most maxFPS
// times per second. Out of range values fall back to the defaults.
func NewStreamingBufferWithConfig(batchSize, maxFPS int) *StreamingBuffer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxFPS <= 0 || maxFPS > 120 {
		maxFPS = DefaultMaxFPS
	}
	return &StreamingBuffer{
		batchSize: batchSize,
		interval:  time.Second / time.Duration(maxFPS),
		lastFlush: time.Now(),
	}
}

// Write adds a token.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(token)
	sb.tokenCount++
}

// Flush returns the buffered text if a batch is due.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if !sb.shouldFlushLocked() {
		return "", false
	}
	return sb.takeLocked(), true
}

// ForceFlush returns whatever is buffered.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.takeLocked(), true
}

// Pending returns the number of tokens waiting.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

// Reset drops buffered text.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
}

func (sb *StreamingBuffer) shouldFlushLocked() bool {
	if sb.buffer.Len() == 0 {
		return false
	}
	return sb.tokenCount >= sb.batchSize || time.Since(sb.lastFlush) >= sb.interval
}

func (sb *StreamingBuffer) takeLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
	return content
}

// tokenSink returns an onToken callback that batches tokens for request id
// and sends them through ref, plus a func that sends the remainder.
func tokenSink(ref *senderRef, id uint64) (onToken func(string), drain func()) {
	buf := NewStreamingBuffer()
	send := func(text string) {
		ref.send(StreamTokenMsg{ID: id, Token: text})
	}
	onToken = func(tok string) {
		buf.Write(tok)
		if text, ok := buf.Flush(); ok {
			send(text)
		}
	}
	drain = func() {
		if text, ok := buf.ForceFlush(); ok {
			send(text)
		}
	}
	return onToken, drain
}
