// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Message: one chat entry with role, modality and streaming state
//   - Conversation: ordered in-memory message list for one run of the app
//   - Platform: emulated device skin (enterprise, android, ios, pc)
//   - EvolutionState: the synthetic node metrics shown in the sidebar
//   - ModelInfo: the Gemini models the app talks to
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("status report")
//	reply := conv.AddModelMessage()
//	reply.AppendToken("All layers nominal.")
//	reply.FinalizeStream()
//	history := conv.History()
package model
