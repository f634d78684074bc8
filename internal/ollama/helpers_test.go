// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeOllama is an httptest server that records every generate request and
// answers with the configured reply.
type fakeOllama struct {
	*httptest.Server

	mu       sync.Mutex
	requests []GenerateRequest
	paths    []string

	status int
	body   string
}

// newFakeOllama starts a server replying {"response": reply} with 200.
func newFakeOllama(t *testing.T, reply string) *fakeOllama {
	t.Helper()

	data, err := json.Marshal(map[string]any{"model": "mistral", "response": reply, "done": true})
	require.NoError(t, err)

	f := &fakeOllama{status: http.StatusOK, body: string(data)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeOllama) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	if r.URL.Path == "/api/generate" {
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			f.requests = append(f.requests, req)
		}
	}
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// respond switches the reply for subsequent requests.
func (f *fakeOllama) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

func (f *fakeOllama) prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.Prompt
	}
	return out
}

func (f *fakeOllama) lastRequest(t *testing.T) GenerateRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no generate request recorded")
	return f.requests[len(f.requests)-1]
}

func (f *fakeOllama) client(model string) *Client {
	return NewClientWithConfig(ClientConfig{Model: model, BaseURL: f.URL})
}

// closedURL returns a base URL nothing is listening on.
func closedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}
