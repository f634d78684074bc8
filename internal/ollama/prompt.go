// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"strings"

	"github.com/jeranaias/shellsage/internal/model"
)

// PromptClient issues stateless single-turn calls.
type PromptClient struct {
	client *Client
}

// NewPromptClient creates a single-turn client over the given transport.
func NewPromptClient(client *Client) *PromptClient {
	return &PromptClient{client: client}
}

// Client returns the underlying transport.
func (p *PromptClient) Client() *Client {
	return p.client
}

// Invoke sends query to the model and returns the response text.
// A non-empty systemPrompt is prepended verbatim followed by a newline.
// Each call makes exactly one request and keeps no state between calls.
func (p *PromptClient) Invoke(ctx context.Context, query string, systemPrompt string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	resp, err := p.client.Generate(ctx, model.ComposePrompt(systemPrompt, query))
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}
