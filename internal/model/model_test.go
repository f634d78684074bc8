// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{Role("tool"), "tool"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())
	assert.False(t, Role("").Valid())
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTurn_String(t *testing.T) {
	assert.Equal(t, "user: hi", NewUserTurn("hi").String())
	assert.Equal(t, "assistant: hello", NewAssistantTurn("hello").String())
}

func TestFormatTranscript(t *testing.T) {
	tests := []struct {
		name  string
		turns []Turn
		want  string
	}{
		{"empty", nil, ""},
		{"single user turn", []Turn{NewUserTurn("Q")}, "user: Q"},
		{
			name: "keeps insertion order",
			turns: []Turn{
				NewUserTurn("first"),
				NewAssistantTurn("one"),
				NewUserTurn("second"),
			},
			want: "user: first\nassistant: one\nuser: second",
		},
		{
			name:  "multiline content is kept verbatim",
			turns: []Turn{NewUserTurn("a\nb")},
			want:  "user: a\nb",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatTranscript(tc.turns))
		})
	}
}

func TestComposePrompt(t *testing.T) {
	assert.Equal(t, "Q", ComposePrompt("", "Q"))
	assert.Equal(t, "S\nQ", ComposePrompt("S", "Q"))
	assert.Equal(t, "S\nuser: Q", ComposePrompt("S", FormatTranscript([]Turn{NewUserTurn("Q")})))
}

func TestAlternates(t *testing.T) {
	assert.True(t, Alternates(nil))
	assert.True(t, Alternates([]Turn{NewUserTurn("a"), NewAssistantTurn("b")}))
	assert.True(t, Alternates([]Turn{NewUserTurn("a")}))
	assert.False(t, Alternates([]Turn{NewAssistantTurn("b")}))
	assert.False(t, Alternates([]Turn{NewUserTurn("a"), NewUserTurn("b")}))
}
