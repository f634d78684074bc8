// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shellsage/internal/config"
	"github.com/jeranaias/shellsage/internal/ollama"
)

// fakeOllama serves /, /api/generate and /api/tags.
type fakeOllama struct {
	*httptest.Server

	mu      sync.Mutex
	prompts []string
	replies []string
	status  int
	tags    string
}

func newFakeOllama(t *testing.T, replies ...string) *fakeOllama {
	t.Helper()
	f := &fakeOllama{
		replies: replies,
		status:  http.StatusOK,
		tags:    `{"models":[{"name":"mistral:latest","size":4109865159,"details":{"family":"llama","parameter_size":"7B"}}]}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Ollama is running")
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		io.WriteString(w, f.tags)
	})
	mux.HandleFunc("/api/generate", f.generate)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeOllama) generate(w http.ResponseWriter, r *http.Request) {
	var req ollama.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req.Prompt)

	if f.status != http.StatusOK {
		w.WriteHeader(f.status)
		io.WriteString(w, `{"error":"model 'nope' not found"}`)
		return
	}

	reply := "ok"
	if len(f.replies) > 0 {
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	json.NewEncoder(w).Encode(map[string]any{
		"model":    req.Model,
		"response": reply,
		"done":     true,
	})
}

func (f *fakeOllama) fail(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeOllama) setTags(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = body
}

func (f *fakeOllama) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// testApp is an App writing into buffers, with markdown off.
type testApp struct {
	*App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, baseURL string) *testApp {
	t.Helper()
	cfg := config.Default()
	cfg.OllamaURL = baseURL
	cfg.UI.Markdown = false

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := &App{
		Config:      cfg,
		Logger:      zerolog.Nop(),
		Stdin:       strings.NewReader(""),
		Stdout:      stdout,
		Stderr:      stderr,
		StdinIsTTY:  true,
		StdoutIsTTY: false,
	}
	return &testApp{App: app, stdout: stdout, stderr: stderr}
}

// closedURL returns a base URL nothing is listening on.
func closedURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

// scriptedInput feeds chatLoop fixed lines, then io.EOF.
type scriptedInput struct {
	lines  []string
	closed bool
}

func (s *scriptedInput) ReadInput(prompt string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) Close() { s.closed = true }
