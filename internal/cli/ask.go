// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - the "ask" command: one question, one answer.
//
// Examples:
//   shellsage ask "what does chmod 2775 do?"
//   shellsage ask -s "Reply with one command only." "count lines in *.go"
//   journalctl -u nginx -n 50 | shellsage ask "why is this failing?"

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/shellsage/internal/ollama"
)

// maxStdinBytes bounds how much piped input is read into a prompt.
const maxStdinBytes = 1 << 20

// askResult is the --json payload of ask.
type askResult struct {
	Model        string `json:"model"`
	Query        string `json:"query"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	Response     string `json:"response"`
}

// HandleAsk sends a single question through a PromptClient and prints the
// answer. Piped stdin is appended to the question, or is the question
// when none is given on the command line.
func (a *App) HandleAsk(ctx context.Context, args Args) error {
	query, err := a.resolveQuery(args.Query)
	if err != nil {
		return err
	}
	if strings.TrimSpace(query) == "" {
		return ErrMissingArgument("question", `shellsage ask "how do I list open ports?"`)
	}

	client := a.newClient(args)
	systemPrompt := a.systemPrompt(args)

	answer, err := ollama.NewPromptClient(client).Invoke(ctx, query, systemPrompt)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("ask", askResult{
			Model:        client.Model(),
			Query:        query,
			SystemPrompt: systemPrompt,
			Response:     answer,
		}).Print(a.Stdout)
	}

	a.writeAnswer(answer, args)
	return nil
}

// resolveQuery combines the command-line question with piped stdin.
func (a *App) resolveQuery(question string) (string, error) {
	if a.StdinIsTTY || a.Stdin == nil {
		return question, nil
	}

	data, err := io.ReadAll(io.LimitReader(a.Stdin, maxStdinBytes))
	if err != nil {
		return "", NewCommandError("ask", "read", "could not read stdin", err)
	}
	piped := strings.TrimSpace(string(data))

	switch {
	case piped == "":
		return question, nil
	case strings.TrimSpace(question) == "":
		return piped, nil
	default:
		return fmt.Sprintf("%s\n\n%s", question, piped), nil
	}
}
