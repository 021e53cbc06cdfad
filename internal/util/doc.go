// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the leoprime packages:
// atomic file writes, width-aware string truncation and input cleanup.
package util
