// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// FormatTranscript serializes turns as "<role>: <content>" lines joined with
// newlines, in the order given.
func FormatTranscript(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
	}
	return b.String()
}

// ComposePrompt prefixes body with the system prompt and a newline separator.
// An empty system prompt means none, and body is returned unchanged.
func ComposePrompt(systemPrompt, body string) string {
	if systemPrompt == "" {
		return body
	}
	return systemPrompt + "\n" + body
}

// Alternates reports whether turns follow the user, assistant, user, ...
// ordering every conversation history must keep.
func Alternates(turns []Turn) bool {
	for i, t := range turns {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if t.Role != want {
			return false
		}
	}
	return true
}
