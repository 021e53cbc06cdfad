// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "math"

// EvolutionState is the synthetic node status shown beside the chat. None
// of it is measured; it only moves when the session says so.
type EvolutionState struct {
	Level             string   `json:"level"`
	Efficiency        float64  `json:"efficiency"`
	SyncStatus        float64  `json:"sync_status"`
	IntelligenceScore float64  `json:"intelligence_score"`
	NetworkSaturation float64  `json:"network_saturation"`
	Platform          Platform `json:"platform"`
	Battery           int      `json:"battery"`
	Storage           string   `json:"storage"`
	RAM               string   `json:"ram"`
}

// SaturationStep is how far one reply pushes network saturation.
const SaturationStep = 2

// InitialEvolution returns the boot-time node status.
func InitialEvolution() EvolutionState {
	return EvolutionState{
		Level:             "PRIME-LEGACY-7",
		Efficiency:        99.9,
		SyncStatus:        100,
		IntelligenceScore: 100.0,
		NetworkSaturation: 5,
		Platform:          PlatformEnterprise,
		Battery:           100,
		Storage:           "2.4TB Free",
		RAM:               "128GB LPDDR5X",
	}
}

// AfterReply advances the metrics for one completed reply. jitter is a
// random value in [0,1).
func (e EvolutionState) AfterReply(jitter float64) EvolutionState {
	e.NetworkSaturation = math.Min(100, e.NetworkSaturation+SaturationStep)
	e.Efficiency = math.Min(100, 99+jitter)
	return e
}
