// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shellsage/internal/model"
	"github.com/jeranaias/shellsage/internal/ollama"
)

// runChat runs chatLoop on a fresh session fed by lines.
func runChat(t *testing.T, app *testApp, systemPrompt string, lines ...string) *ChatSession {
	t.Helper()
	session := newChatSession(app.newClient(Args{}), systemPrompt)
	in := &scriptedInput{lines: lines}
	require.NoError(t, app.chatLoop(context.Background(), session, in, Args{Quiet: true}))
	return session
}

func TestChat_ReplaysTranscript(t *testing.T) {
	srv := newFakeOllama(t, "Hi there", "Use ls -la")
	app := newTestApp(t, srv.URL)

	session := runChat(t, app, "", "Hello", "How do I list files?")

	assert.Equal(t, []string{
		"user: Hello",
		"user: Hello\nassistant: Hi there\nuser: How do I list files?",
	}, srv.sent())
	assert.Equal(t, []model.Turn{
		model.NewUserTurn("Hello"),
		model.NewAssistantTurn("Hi there"),
		model.NewUserTurn("How do I list files?"),
		model.NewAssistantTurn("Use ls -la"),
	}, session.Conversation().History())
	assert.Equal(t, 2, session.Exchanges)
	assert.Contains(t, app.stdout.String(), "Use ls -la")
}

func TestChat_SystemPrompt(t *testing.T) {
	srv := newFakeOllama(t, "ok")
	app := newTestApp(t, srv.URL)

	runChat(t, app, "You are terse.", "hi")
	assert.Equal(t, []string{"You are terse.\nuser: hi"}, srv.sent())
}

func TestChat_FailureKeepsSessionAndHistory(t *testing.T) {
	srv := newFakeOllama(t)
	srv.fail(http.StatusInternalServerError)
	app := newTestApp(t, srv.URL)

	session := runChat(t, app, "", "first", "second")

	assert.Len(t, srv.sent(), 2, "loop continues after a failed call")
	assert.Equal(t, 0, session.Conversation().Len())
	assert.Equal(t, 0, session.Exchanges)
	assert.Contains(t, app.stderr.String(), "HTTP 500")
}

func TestChat_ClearStartsNewConversation(t *testing.T) {
	srv := newFakeOllama(t, "a1", "a2")
	app := newTestApp(t, srv.URL)

	session := runChat(t, app, "", "one", "/clear", "two")

	assert.Equal(t, []string{"user: one", "user: two"}, srv.sent())
	assert.Equal(t, 2, session.Conversation().Len())
	assert.Equal(t, 2, session.Exchanges)
	assert.Contains(t, app.stdout.String(), "Conversation cleared.")
}

func TestChat_PromptCommandShowsNextTranscript(t *testing.T) {
	srv := newFakeOllama(t, "a1")
	app := newTestApp(t, srv.URL)

	runChat(t, app, "S", "one", "/prompt two")

	assert.Contains(t, app.stdout.String(), "S\nuser: one\nassistant: a1\nuser: two")
	assert.Len(t, srv.sent(), 1, "/prompt does not call the server")
}

func TestChat_SlashCommands(t *testing.T) {
	srv := newFakeOllama(t, "answer")
	app := newTestApp(t, srv.URL)

	runChat(t, app, "", "q", "/history", "/model", "/help", "/bogus", "/prompt")

	out := app.stdout.String()
	assert.Contains(t, out, "You:")
	assert.Contains(t, out, "Assistant:")
	assert.Contains(t, out, "mistral")
	assert.Contains(t, out, "/clear")
	assert.Contains(t, app.stderr.String(), "unknown chat command")
	assert.Contains(t, app.stderr.String(), "required argument missing")
}

func TestChat_QuitStopsReading(t *testing.T) {
	srv := newFakeOllama(t, "a")
	app := newTestApp(t, srv.URL)

	runChat(t, app, "", "/quit", "never sent")
	assert.Empty(t, srv.sent())

	runChat(t, app, "", "exit", "never sent")
	assert.Empty(t, srv.sent())
}

func TestHandleChat_NotRunning(t *testing.T) {
	app := newTestApp(t, closedURL(t))
	opened := false
	app.newLineReader = func() (lineReader, error) {
		opened = true
		return &scriptedInput{}, nil
	}

	err := app.HandleChat(context.Background(), Args{})
	require.Error(t, err)
	assert.True(t, ollama.IsConnection(err))
	assert.False(t, opened, "input is not opened when Ollama is down")
}

func TestHandleChat_ClosesInput(t *testing.T) {
	srv := newFakeOllama(t, "hello")
	app := newTestApp(t, srv.URL)
	in := &scriptedInput{lines: []string{"hi"}}
	app.newLineReader = func() (lineReader, error) { return in, nil }

	require.NoError(t, app.HandleChat(context.Background(), Args{}))
	assert.True(t, in.closed)
	assert.Contains(t, app.stdout.String(), "shellsage chat")
	assert.Contains(t, app.stdout.String(), "1 exchanges")
}

func TestChatCLI_CloseSavesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history")
	var logs bytes.Buffer

	c := NewChatCLI(path, zerolog.New(&logs).Level(zerolog.DebugLevel))
	c.line.AppendHistory("how do I list ports")
	c.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "how do I list ports")
	assert.Empty(t, logs.String())
}

func TestChatCLI_CloseLogsSaveFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	path := filepath.Join(blocker, "chat_history")
	var logs bytes.Buffer

	c := NewChatCLI(path, zerolog.New(&logs).Level(zerolog.DebugLevel))
	c.line.AppendHistory("lost")
	c.Close()

	assert.Contains(t, logs.String(), "failed to save chat history")
	assert.Contains(t, logs.String(), path)
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{850 * time.Millisecond, "850ms"},
		{2300 * time.Millisecond, "2.3s"},
		{4*time.Minute + 12*time.Second, "4m12s"},
		{time.Hour + 5*time.Minute, "1h5m"},
	}
	for _, tt := range tests {
		if got := formatDurationShort(tt.d); got != tt.want {
			t.Errorf("formatDurationShort(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
