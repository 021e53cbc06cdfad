// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the LEO PRIME
// interface.
//
// Components are plain structs with setters and a View method. They hold
// no references to the session; the chat model copies the state it wants
// shown into them before each render.
//
// # Components
//
//   - Header: "Secure Node / LEO PRIME", activity dot, platform tabs
//   - Sidebar: brand, core metrics, legacy log, efficiency sparkline
//   - Dashboard: overlay with the status cards and assimilation map
//   - Chrome: device frame around the main pane (phone bars, window bar)
//   - Welcome: empty-state mark and quick directives
//   - Transcript: message list with Markdown replies
//   - Thinking: spinner line shown while a directive is in flight
//   - StatusBar: key hints
package components
