// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/shellsage/internal/model"
)

// Conversation is a multi-turn client that keeps the transcript client-side.
//
// Every call replays the whole history plus the new query as one prompt.
// History is append-only and grows without bound; start over by creating a
// new Conversation. A failed call never touches history.
//
// Conversation is meant to be driven by one caller at a time. The history
// lock only keeps a snapshot and an append from tearing; it does not order
// concurrent calls.
type Conversation struct {
	client       *Client
	systemPrompt string
	id           string
	logger       zerolog.Logger

	mu      sync.Mutex
	history []model.Turn
}

// NewConversation creates an empty conversation. An empty systemPrompt
// means none.
func NewConversation(client *Client, systemPrompt string) *Conversation {
	id := uuid.NewString()
	return &Conversation{
		client:       client,
		systemPrompt: systemPrompt,
		id:           id,
		logger:       client.logger.With().Str("conversation", id).Logger(),
	}
}

// ID returns the conversation identifier used in log events.
func (c *Conversation) ID() string {
	return c.id
}

// SystemPrompt returns the configured system prompt.
func (c *Conversation) SystemPrompt() string {
	return c.systemPrompt
}

// Client returns the underlying transport.
func (c *Conversation) Client() *Client {
	return c.client
}

// History returns a copy of the turns exchanged so far, oldest first.
func (c *Conversation) History() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	turns := make([]model.Turn, len(c.history))
	copy(turns, c.history)
	return turns
}

// Len returns the number of turns in the history.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

// Transcript returns the exact prompt the next Invoke(query) would send.
func (c *Conversation) Transcript(query string) string {
	turns := append(c.History(), model.NewUserTurn(query))
	return model.ComposePrompt(c.systemPrompt, model.FormatTranscript(turns))
}

// Invoke sends the history plus query as one prompt and returns the reply.
// On success the user query and the reply are appended to history, in that
// order. On failure the error is returned unchanged and history is untouched.
func (c *Conversation) Invoke(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	prompt := c.Transcript(query)

	resp, err := c.client.Generate(ctx, prompt)
	if err != nil {
		c.logger.Debug().Err(err).Msg("turn failed, history unchanged")
		return "", err
	}

	c.mu.Lock()
	c.history = append(c.history, model.NewUserTurn(query), model.NewAssistantTurn(resp.Response))
	turns := len(c.history)
	c.mu.Unlock()

	c.logger.Debug().Int("turns", turns).Msg("turn appended")
	return resp.Response, nil
}

// ToolLoop is an alias for Invoke. It exists so Conversation can stand in
// where a tool-calling client is expected; it dispatches no tools.
func (c *Conversation) ToolLoop(ctx context.Context, query string) (string, error) {
	return c.Invoke(ctx, query)
}
