// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini talks to the Gemini API through google.golang.org/genai.
//
// Three calls back the app: the chat reply (streamed or whole), a short
// assimilation status summary of each exchange, and holographic visual
// synthesis. Every call passes through a token-bucket limiter and is never
// retried; a failure is returned once and logged.
//
// # Key Types
//
//   - Client: configured genai client implementing Provider
//   - Provider: the interface the TUI and CLI depend on
//   - Image: inline image bytes returned by Visual
//
// # Usage
//
//	client, err := gemini.NewClient(ctx, gemini.FromConfig(cfg.Model))
//	if errors.Is(err, gemini.ErrNotConfigured) {
//	    // ask for LEO_API_KEY
//	}
//	reply, err := client.ChatStream(ctx, history, prompt, func(tok string) {
//	    fmt.Print(tok)
//	})
package gemini
