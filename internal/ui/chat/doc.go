// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the LEO PRIME terminal interface.
//
// The Model composes the sidebar, the device chrome, the neural field band,
// the transcript and the input line, and drives one directive at a time
// through a session.Manager and a gemini.Provider.
//
// # Message flow
//
//	Enter ─► session.Begin ─► ChatStream (tea.Cmd goroutine)
//	                              │ tokens ─► StreamingBuffer ─► Sender.Send(StreamTokenMsg)
//	                              ▼
//	                           ReplyMsg ─► session.Complete ─► Analyze ─► AnalysisMsg ─► session.Finish
//
// Esc cancels the request context and withdraws the directive. Replies
// from a withdrawn request are recognised by their request ID and dropped.
//
// # Particle field
//
// The field band is a canvas.Animator drawing on a canvas.Raster. Frames
// are paced by a QueueScheduler that the model flushes on every FrameMsg,
// so all drawing happens on the Bubble Tea update goroutine.
//
// # Usage
//
//	m := chat.New(chat.Options{Session: mgr, Provider: client, Config: cfg})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	m.SetSender(p)
//	_, err := p.Run()
package chat
