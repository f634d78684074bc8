// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - the interactive "chat" command.
//
// The REPL drives one ollama.Conversation. Conversation history lives only
// in memory; the input-line history (arrow keys) is kept in
// ~/.shellsage/chat_history.
//
// Interactive commands:
//   /help, /h           Show available commands
//   /history            Show the conversation so far
//   /prompt <question>  Show the prompt the next question would send
//   /clear, /c          Start a fresh conversation
//   /model              Show the model in use
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel the in-flight request
//   Ctrl+D              Exit chat

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/jeranaias/shellsage/internal/config"
	"github.com/jeranaias/shellsage/internal/model"
	"github.com/jeranaias/shellsage/internal/ollama"
	"github.com/jeranaias/shellsage/internal/util"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader is the REPL's source of input lines. io.EOF or
// liner.ErrPromptAborted ends the session.
type lineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides line editing and input history for chat via liner.
type ChatCLI struct {
	line        *liner.State
	historyFile string
	logger      zerolog.Logger
}

// NewChatCLI creates a ChatCLI and loads input history from historyFile.
// An empty historyFile disables persistence.
func NewChatCLI(historyFile string, logger zerolog.Logger) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line, historyFile: historyFile, logger: logger}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line, recording non-empty input in the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() error {
	if c.historyFile == "" {
		return nil
	}
	var buf bytes.Buffer
	if _, err := c.line.WriteHistory(&buf); err != nil {
		return err
	}
	return util.AtomicWriteFile(c.historyFile, buf.Bytes(), 0600)
}

// Close saves history and restores the terminal. A failed save is logged,
// not returned: losing input history never fails the session.
func (c *ChatCLI) Close() {
	if err := c.SaveHistory(); err != nil {
		c.logger.Debug().Err(err).Str("path", c.historyFile).Msg("failed to save chat history")
	}
	c.line.Close()
}

func chatHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chat_history")
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state of one interactive chat.
type ChatSession struct {
	client       *ollama.Client
	systemPrompt string
	conv         *ollama.Conversation

	StartTime time.Time
	// Exchanges counts successful question/answer pairs across /clear.
	Exchanges int
}

func newChatSession(client *ollama.Client, systemPrompt string) *ChatSession {
	return &ChatSession{
		client:       client,
		systemPrompt: systemPrompt,
		conv:         ollama.NewConversation(client, systemPrompt),
		StartTime:    time.Now(),
	}
}

// Conversation returns the active conversation.
func (s *ChatSession) Conversation() *ollama.Conversation {
	return s.conv
}

// Reset replaces the conversation with an empty one.
func (s *ChatSession) Reset() {
	s.conv = ollama.NewConversation(s.client, s.systemPrompt)
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive chat REPL.
func (a *App) HandleChat(ctx context.Context, args Args) error {
	client := a.newClient(args)
	if err := client.CheckRunning(ctx); err != nil {
		return err
	}

	in, err := a.openLineReader()
	if err != nil {
		return NewCommandError("chat", "start", "could not open terminal input", err)
	}
	defer in.Close()

	session := newChatSession(client, a.systemPrompt(args))
	a.Logger.Debug().Str("conversation", session.conv.ID()).Msg("chat started")

	if !args.Quiet {
		a.printWelcome(session)
	}
	return a.chatLoop(ctx, session, in, args)
}

func (a *App) openLineReader() (lineReader, error) {
	if a.newLineReader != nil {
		return a.newLineReader()
	}
	return NewChatCLI(chatHistoryPath(), a.Logger), nil
}

// chatLoop reads input until EOF, Ctrl+C at the prompt, or /quit.
func (a *App) chatLoop(ctx context.Context, session *ChatSession, in lineReader, args Args) error {
	for {
		input, err := in.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(a.Stdout)
				a.printExitSummary(session, args)
				return nil
			}
			return NewCommandError("chat", "read", "could not read input", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := a.handleSlashCommand(session, input)
			if err != nil {
				fmt.Fprintln(a.Stderr, ErrorStyle.Render(ollama.Explain(err)))
			}
			if !keepGoing {
				a.printExitSummary(session, args)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			a.printExitSummary(session, args)
			return nil
		}

		// Failures are reported inline and the session continues.
		_ = a.processMessage(ctx, session, input, args)
	}
}

// processMessage sends one question. Ctrl+C cancels only this request.
func (a *App) processMessage(ctx context.Context, session *ChatSession, input string, args Args) error {
	callCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	start := time.Now()
	answer, err := session.conv.Invoke(callCtx, input)
	if err != nil {
		if ollama.IsCanceled(err) {
			fmt.Fprintln(a.Stderr, WarningStyle.Render("[Canceled] history unchanged"))
		} else {
			fmt.Fprintln(a.Stderr, ErrorStyle.Render(ollama.Explain(err)))
		}
		return err
	}
	session.Exchanges++

	fmt.Fprintln(a.Stdout)
	a.writeAnswer(answer, args)
	if !args.Quiet {
		fmt.Fprintln(a.Stdout, DimStyle.Render(fmt.Sprintf("(%s, %d turns)",
			formatDurationShort(time.Since(start)), session.conv.Len())))
	}
	fmt.Fprintln(a.Stdout)
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs a /command. It returns false when chat should end.
func (a *App) handleSlashCommand(session *ChatSession, input string) (bool, error) {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return false, nil

	case "/help", "/h", "/?":
		a.printChatHelp()

	case "/history":
		a.printHistory(session)

	case "/prompt":
		if rest == "" {
			return true, ErrMissingArgument("question", "/prompt how do I tail a log?")
		}
		fmt.Fprintln(a.Stdout, session.conv.Transcript(rest))

	case "/clear", "/c":
		session.Reset()
		fmt.Fprintln(a.Stdout, DimStyle.Render("Conversation cleared."))

	case "/model":
		fmt.Fprintln(a.Stdout, renderField("Model", session.client.Model()))

	default:
		return true, NewValidationErrorWithExample("command", name, "unknown chat command", "/help")
	}
	return true, nil
}

func (a *App) printChatHelp() {
	cmds := []struct{ name, desc string }{
		{"/help", "Show this help"},
		{"/history", "Show the conversation so far"},
		{"/prompt <q>", "Show the prompt the next question would send"},
		{"/clear", "Start a fresh conversation"},
		{"/model", "Show the model in use"},
		{"/quit", "Exit chat (Ctrl+D also exits)"},
	}
	for _, c := range cmds {
		fmt.Fprintf(a.Stdout, "  %s %s\n",
			commandStyle.Render(fmt.Sprintf("%-12s", c.name)), c.desc)
	}
}

// printHistory shows one line per turn, truncated to the terminal width.
func (a *App) printHistory(session *ChatSession) {
	turns := session.conv.History()
	if len(turns) == 0 {
		fmt.Fprintln(a.Stdout, DimStyle.Render("No messages yet."))
		return
	}

	width := TerminalWidth() - 12
	for _, turn := range turns {
		label := userLabelStyle
		if turn.Role == model.RoleAssistant {
			label = assistantLabelStyle
		}
		fmt.Fprintf(a.Stdout, "%s %s\n",
			label.Render(fmt.Sprintf("%-10s", turn.Role.DisplayName()+":")),
			util.TruncateWidth(util.FirstLine(turn.Content), width))
	}
}

func (a *App) printWelcome(session *ChatSession) {
	fmt.Fprintln(a.Stdout, welcomeStyle.Render("shellsage chat"))
	fmt.Fprintln(a.Stdout, renderField("Model", session.client.Model()))
	if session.systemPrompt != "" {
		fmt.Fprintln(a.Stdout, renderField("System prompt", util.TruncateWidth(util.FirstLine(session.systemPrompt), 60)))
	}
	fmt.Fprintln(a.Stdout, DimStyle.Render("Type /help for commands, Ctrl+D to exit."))
	fmt.Fprintln(a.Stdout)
}

func (a *App) printExitSummary(session *ChatSession, args Args) {
	if args.Quiet {
		return
	}
	fmt.Fprintln(a.Stdout, DimStyle.Render(fmt.Sprintf("%d exchanges in %s. Bye.",
		session.Exchanges, formatDurationShort(time.Since(session.StartTime)))))
}

// formatDurationShort formats a duration as 850ms, 2.3s, 4m12s or 1h5m.
func formatDurationShort(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
