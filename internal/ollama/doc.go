// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with the Ollama API.
//
// Every call is a single non-streaming POST to /api/generate. Two call
// patterns are built on top of the shared transport:
//
//   - PromptClient: stateless single-turn calls with an optional system prompt
//   - Conversation: multi-turn calls that replay the accumulated history as a
//     flat "<role>: <content>" transcript
//
// # Key Types
//
//   - Client: HTTP transport for /api/generate, /api/tags and health checks
//   - ClientConfig: model name and base URL, copied at construction
//   - ClientError: typed failure (connection, server status, invalid response, canceled)
//
// # Usage
//
//	client := ollama.NewClient()
//	answer, err := ollama.NewPromptClient(client).Invoke(ctx, "list open ports", "")
//	if err != nil {
//	    fmt.Println(ollama.Explain(err))
//	}
//
// For multi-turn use:
//
//	conv := ollama.NewConversation(client, "You are a shell expert.")
//	reply, err := conv.Invoke(ctx, "How do I find large files?")
//
// # Errors
//
// Failures are never folded into the returned text. Use IsConnection,
// IsServer and IsCanceled (or errors.As with *ClientError) to tell them
// apart, and Explain to render a message for an operator.
package ollama
