// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the chat state shared by the TUI and the line REPL.
//
// A Manager owns the conversation, the synthetic node status, the rolling
// legacy log and the loading flag. It does not talk to the network; callers
// run the provider call between Begin and Finish and report the outcome.
//
// # Key Types
//
//   - Manager: in-memory state machine for one run of the app
//   - Request: what Begin hands to the provider (history + decorated prompt)
//   - SystemLog: newest-first log capped at a fixed size
//   - Directive: a canned quick directive
//
// # Lifecycle
//
//	req, err := mgr.Begin(input)   // loading = true, [EXE] logged
//	reply, err := provider(req)    // caller's network call
//	if err != nil {
//	    mgr.Fail(err)              // [FAULT] logged
//	} else {
//	    mgr.Complete(reply)        // metrics advance
//	    mgr.RecordAnalysis(status) // [ANALYSIS] logged
//	}
//	mgr.Finish()                   // loading = false
//
// Nothing is persisted: the state lives as long as the process.
package session
