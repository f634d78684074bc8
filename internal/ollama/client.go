// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "mistral"

	// DefaultBaseURL is the address of a locally running Ollama server.
	DefaultBaseURL = "http://localhost:11434"

	// maxErrorBody caps how much of a failing response body is kept.
	maxErrorBody = 64 * 1024

	// maxResponseBody caps a generate reply.
	maxResponseBody = 32 * 1024 * 1024
)

// ClientConfig holds the model identifier and the server base URL.
// A Client copies it at construction; later changes to the caller's value
// have no effect.
type ClientConfig struct {
	// Model is the Ollama model name (default: "mistral")
	Model string

	// BaseURL is the Ollama API base URL (default: http://localhost:11434)
	BaseURL string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Model:   DefaultModel,
		BaseURL: DefaultBaseURL,
	}
}

// withDefaults fills zero fields and normalizes the base URL.
func (c ClientConfig) withDefaults() ClientConfig {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for per-request debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Ollama API.
//
// The Client holds no per-call state and is safe for concurrent use. It does
// not retry and sets no client-side timeout; bound calls with the context.
//
// Example:
//
//	client := ollama.NewClientWithConfig(ollama.ClientConfig{Model: "qwen2.5-coder:7b"})
//	resp, err := client.Generate(ctx, "Explain `chmod 755`")
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Ollama client with default configuration.
func NewClient(opts ...Option) *Client {
	return NewClientWithConfig(DefaultConfig(), opts...)
}

// NewClientWithConfig creates a new Ollama client with custom configuration.
// Zero fields in config are filled with defaults.
func NewClientWithConfig(config ClientConfig, opts ...Option) *Client {
	c := &Client{
		config: config.withDefaults(),
		// SECURITY: TLS not required - Ollama runs locally over plain HTTP
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() ClientConfig {
	return c.config
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// GENERATE
// =============================================================================

// Generate sends prompt to /api/generate with streaming disabled and returns
// the decoded response. The prompt is sent exactly as given.
func (c *Client) Generate(ctx context.Context, prompt string) (*GenerateResponse, error) {
	reqBody := GenerateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Str("model", c.config.Model).
			Int("prompt_len", len(prompt)).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("generate failed")
		return nil, transportError(ctx, err)
	}
	defer drainAndClose(resp.Body)

	c.logger.Debug().
		Str("model", c.config.Model).
		Int("prompt_len", len(prompt)).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("generate completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newServerError(resp.StatusCode, readErrorBody(resp.Body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, transportError(ctx, err)
	}

	var text generateText
	if err := json.Unmarshal(data, &text); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if text.Response == nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "response field missing from generate reply"}
	}

	var result GenerateResponse
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Debug().Err(err).Msg("ignoring malformed generate metadata")
	}
	result.Response = *text.Response
	return &result, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that Ollama is reachable and running.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return newServerError(resp.StatusCode, readErrorBody(resp.Body))
	}

	return nil
}

// =============================================================================
// MODEL LISTING
// =============================================================================

// ListModels retrieves all locally available models from Ollama.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, newServerError(resp.StatusCode, readErrorBody(resp.Body))
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Models, nil
}

// HasModel reports whether name is among the locally available models.
// A name without a tag matches its ":latest" variant.
func (c *Client) HasModel(ctx context.Context, name string) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m.Name == name || m.Name == name+":latest" {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// transportError classifies an error returned by http.Client.Do.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeCanceled, Message: "request canceled", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "Ollama is not running", Cause: err}
}

func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeAPIError(body string) string {
	var apiErr apiError
	if err := json.Unmarshal([]byte(body), &apiErr); err != nil {
		return ""
	}
	return apiErr.Error
}

// drainAndClose lets the transport reuse the connection.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
