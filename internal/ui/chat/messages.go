// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/leoprime/internal/config"
)

// =============================================================================
// FIELD MESSAGES
// =============================================================================

// FrameMsg flushes the particle field's pending frame and advances the
// header activity dot.
type FrameMsg struct {
	Time time.Time
}

// =============================================================================
// DIRECTIVE MESSAGES
// =============================================================================

// StreamTokenMsg carries a batch of reply text for request ID.
type StreamTokenMsg struct {
	ID    uint64
	Token string
}

// ReplyMsg ends the chat call for request ID.
type ReplyMsg struct {
	ID    uint64
	Input string
	Text  string
	Err   error
}

// AnalysisMsg ends the analysis call for request ID.
type AnalysisMsg struct {
	ID      uint64
	Summary string
	Err     error
}

// VisualMsg ends a /visual call.
type VisualMsg struct {
	Caption  string
	Path     string
	MIMEType string
	Err      error
}

// =============================================================================
// HOUSEKEEPING MESSAGES
// =============================================================================

// ConfigReloadMsg is sent by the config watcher.
type ConfigReloadMsg struct {
	Config *config.Config
	Err    error
}

// ClearNoticeMsg clears the status bar notice with the given sequence number.
type ClearNoticeMsg struct {
	Seq int
}
