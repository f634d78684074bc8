// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/jeranaias/shellsage/internal/config"
	"github.com/jeranaias/shellsage/internal/ollama"
)

// App carries the resolved configuration and I/O streams shared by every
// command handler.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsTTY is false when input is piped; ask then reads the question
	// (or extra context) from Stdin.
	StdinIsTTY bool
	// StdoutIsTTY enables markdown rendering.
	StdoutIsTTY bool

	// HTTPClient overrides the transport used for Ollama calls (tests).
	HTTPClient *http.Client

	// newLineReader opens the chat input; nil means liner on the terminal.
	newLineReader func() (lineReader, error)
}

// NewApp returns an App bound to the process's standard streams.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config:      cfg,
		Logger:      logger,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		StdinIsTTY:  IsStdinTTY(),
		StdoutIsTTY: IsStdoutTTY(),
	}
}

// Run dispatches cmd.
func (a *App) Run(ctx context.Context, cmd Command, args Args) error {
	a.Logger.Debug().Str("command", cmd.String()).Msg("running command")

	switch cmd {
	case CmdAsk:
		return a.HandleAsk(ctx, args)
	case CmdChat:
		return a.HandleChat(ctx, args)
	case CmdStatus:
		return a.HandleStatus(ctx, args)
	case CmdModels:
		return a.HandleModels(ctx, args)
	case CmdConfig:
		return a.HandleConfig(args)
	case CmdVersion:
		PrintVersion(a.Stdout)
		return nil
	default:
		PrintUsage(a.Stdout, a.Config.Model)
		return nil
	}
}

// =============================================================================
// CLIENT CONSTRUCTION
// =============================================================================

// clientConfig applies --model and --url over the loaded config.
func (a *App) clientConfig(args Args) ollama.ClientConfig {
	cc := a.Config.ClientConfig()
	if args.Model != "" {
		cc.Model = args.Model
	}
	if args.URL != "" {
		cc.BaseURL = args.URL
	}
	return cc
}

func (a *App) newClient(args Args) *ollama.Client {
	opts := []ollama.Option{ollama.WithLogger(a.Logger)}
	if a.HTTPClient != nil {
		opts = append(opts, ollama.WithHTTPClient(a.HTTPClient))
	}
	return ollama.NewClientWithConfig(a.clientConfig(args), opts...)
}

// systemPrompt returns --system when given, else the configured prompt.
func (a *App) systemPrompt(args Args) string {
	if args.SystemSet {
		return args.System
	}
	return a.Config.SystemPrompt
}

// =============================================================================
// ANSWER RENDERING
// =============================================================================

// useMarkdown reports whether answers should go through glamour.
func (a *App) useMarkdown(args Args) bool {
	return a.StdoutIsTTY && a.Config.UI.Markdown && !args.Raw
}

// newMarkdownRenderer builds a glamour renderer wrapping at the configured
// width, or the terminal width when that is 0.
func (a *App) newMarkdownRenderer() (*glamour.TermRenderer, error) {
	wrap := a.Config.UI.WordWrap
	if wrap == 0 {
		wrap = TerminalWidth()
	}
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
}

// writeAnswer prints an answer, rendering markdown when appropriate.
// Rendering failures fall back to the plain text.
func (a *App) writeAnswer(answer string, args Args) {
	if a.useMarkdown(args) {
		if r, err := a.newMarkdownRenderer(); err == nil {
			if out, err := r.Render(answer); err == nil {
				fmt.Fprint(a.Stdout, out)
				return
			}
		}
		a.Logger.Debug().Msg("markdown rendering failed, printing plain text")
	}
	fmt.Fprint(a.Stdout, answer)
	if !strings.HasSuffix(answer, "\n") {
		fmt.Fprintln(a.Stdout)
	}
}
