// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// Purpose is what the app uses a model for.
type Purpose string

const (
	PurposeChat     Purpose = "chat"
	PurposeAnalysis Purpose = "analysis"
	PurposeImage    Purpose = "image"
)

// ModelInfo describes one Gemini model.
type ModelInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Purpose     Purpose `json:"purpose"`
	MaxTokens   int     `json:"max_tokens"`
	Description string  `json:"description"`
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models is the registry of models by short name.
var Models = map[string]ModelInfo{
	"pro": {
		ID:          "gemini-3-pro-preview",
		Name:        "Gemini 3.0 Pro",
		Purpose:     PurposeChat,
		MaxTokens:   1048576,
		Description: "Primary reasoning core with extended thinking",
	},
	"flash": {
		ID:          "gemini-3-flash-preview",
		Name:        "Gemini 3.0 Flash",
		Purpose:     PurposeAnalysis,
		MaxTokens:   1048576,
		Description: "Fast summaries of the assimilation status",
	},
	"image": {
		ID:          "gemini-2.5-flash-image",
		Name:        "Gemini 2.5 Flash Image",
		Purpose:     PurposeImage,
		MaxTokens:   32768,
		Description: "Holographic visual synthesis",
	},
}

// ContextString returns a formatted context window string.
func (m ModelInfo) ContextString() string {
	if m.MaxTokens >= 1000000 {
		return fmt.Sprintf("%.1fM tokens", float64(m.MaxTokens)/1000000)
	}
	if m.MaxTokens >= 1000 {
		return fmt.Sprintf("%dK tokens", m.MaxTokens/1000)
	}
	return fmt.Sprintf("%d tokens", m.MaxTokens)
}

// GetModelInfo looks up a model by short name or ID.
func GetModelInfo(nameOrID string) (ModelInfo, bool) {
	if info, ok := Models[nameOrID]; ok {
		return info, true
	}
	for _, info := range Models {
		if strings.EqualFold(info.ID, nameOrID) {
			return info, true
		}
	}
	return ModelInfo{}, false
}

// DisplayName returns the registry name for a model ID, or the ID itself.
func DisplayName(id string) string {
	if info, ok := GetModelInfo(id); ok {
		return info.Name
	}
	return id
}

// ModelShortNames returns the sorted registry keys.
func ModelShortNames() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
