// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for leoprime.
//
// Supports TOML and JSON configuration files (YAML for export), with sensible
// defaults, environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ModelConfig: Gemini models, sampling and throttling
//   - CanvasConfig: Particle field parameters and frame rate
//   - UIConfig: Platform skin, theme and layout
//   - Watcher: fsnotify-based reload of a config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LEO_*, GEMINI_API_KEY, API_KEY)
//   - ~/.leoprime/config.toml
//   - ~/.leoprime/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	params := cfg.Canvas.Params()
package config
