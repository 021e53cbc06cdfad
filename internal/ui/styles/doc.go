// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles holds the LEO PRIME palette and the lipgloss styles built
// from it.
//
// The interface is amber on near-black slate. Every color is a lipgloss
// AdaptiveColor so light terminals get readable darker variants; NewTheme
// detects the background and color profile through termenv unless the
// theme is forced in config.
//
// # Key Types
//
//   - Theme: all styled components plus terminal capabilities
//   - LayoutMode: narrow / medium / wide breakpoints
//   - SpinnerConfig: frame sets for the thinking indicator
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	theme.SetSize(width, height)
//	title := theme.HeaderTitle.Render("LEO PRIME")
package styles
