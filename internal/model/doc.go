// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversation turns.
//
// A conversation is an ordered, append-only list of Turns. Each exchange with
// the model adds exactly two turns: the user's query followed by the
// assistant's reply. The order is significant because the whole history is
// replayed to the server as a flat transcript on every call.
//
// # Key Types
//
//   - Role: Turn role enumeration (user, assistant)
//   - Turn: Single role-tagged message in a transcript
//
// # Usage
//
// Build the prompt for the next call:
//
//	turns := append(history, model.NewUserTurn("How do I list open ports?"))
//	prompt := model.ComposePrompt(systemPrompt, model.FormatTranscript(turns))
package model
