// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the leoprime commands.
//
// Running leoprime with no subcommand opens the full-screen chat
// interface. The subcommands cover scripted and line-oriented use:
//
//   - ask: one directive, reply on stdout
//   - chat: line REPL with input history
//   - field: the particle field alone, full screen
//   - visual: generate one image
//   - config: show, get, set and locate settings
//   - version: build information
//
// Every command loads configuration and builds the zap logger in the
// root PersistentPreRunE, so handlers read a ready *config.Config.
// Commands return errors to cobra and main exits 1.
//
// # Usage
//
//	if err := cli.Execute(); err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	    os.Exit(1)
//	}
package cli
