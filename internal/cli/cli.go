// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (overridden at build time with -ldflags -X)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHelp Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdModels
	CmdConfig
	CmdVersion
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdStatus:
		return "status"
	case CmdModels:
		return "models"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Model      string
	URL        string
	ConfigPath string
	JSON       bool
	Quiet      bool
	Verbose    bool

	// System is the -s/--system value; SystemSet distinguishes an explicit
	// empty prompt from an absent flag.
	System    string
	SystemSet bool

	// Raw disables markdown rendering of answers.
	Raw bool
	// Force lets "config init" overwrite an existing file.
	Force bool

	// Query is the joined positional text after the command.
	Query string
	// Subcommand is the first positional after the command.
	Subcommand string
}

var cliFlags = &FlagSet{
	Bools: map[string]bool{
		"json": true, "quiet": true, "verbose": true, "raw": true,
		"force": true, "help": true, "version": true,
	},
	Aliases: map[string]string{
		"m": "model",
		"s": "system",
		"c": "config",
		"q": "quiet",
		"v": "verbose",
		"h": "help",
		"f": "force",
	},
	FreeText: map[string]bool{"ask": true, "a": true},
}

var knownFlags = map[string]bool{
	"model": true, "url": true, "system": true, "config": true,
	"json": true, "quiet": true, "verbose": true, "raw": true,
	"force": true, "help": true, "version": true,
}

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, cliFlags)

	args := Args{
		Model:      p.Flag("model"),
		URL:        p.Flag("url"),
		ConfigPath: p.Flag("config"),
		JSON:       p.BoolFlag("json"),
		Quiet:      p.BoolFlag("quiet"),
		Verbose:    p.BoolFlag("verbose"),
		Raw:        p.BoolFlag("raw"),
		Force:      p.BoolFlag("force"),
		System:     p.Flag("system"),
		SystemSet:  p.HasFlag("system"),
		Query:      JoinPositionalArgs(p, 1),
		Subcommand: p.Positional(1),
	}

	if unknown := p.Unknown(knownFlags); len(unknown) > 0 {
		return CmdHelp, args, NewValidationErrorWithExample(
			"flag", "--"+unknown[0], "unknown flag", "shellsage help")
	}
	if p.BoolFlag("version") {
		return CmdVersion, args, nil
	}
	if p.BoolFlag("help") {
		return CmdHelp, args, nil
	}

	switch strings.ToLower(p.Subcommand()) {
	case "", "help":
		return CmdHelp, args, nil
	case "ask", "a":
		return CmdAsk, args, nil
	case "chat", "c":
		return CmdChat, args, nil
	case "status", "s":
		return CmdStatus, args, nil
	case "models", "list", "ls":
		return CmdModels, args, nil
	case "config":
		return CmdConfig, args, nil
	case "version":
		return CmdVersion, args, nil
	default:
		return CmdHelp, args, NewValidationErrorWithExample(
			"command", p.Subcommand(), "unknown command", "shellsage help")
	}
}

const usageText = `shellsage - ask a local Ollama model from your shell

Usage:
  shellsage ask [flags] <question...>   Ask a single question
  shellsage chat [flags]                Interactive chat
  shellsage status, s                   Check Ollama and the configured model
  shellsage models, ls                  List local models
  shellsage config [show|path|init]     Configuration
  shellsage version                     Version information
  shellsage help                        This text

Flags:
  -m, --model NAME     Model to use (default from config: %s)
      --url URL        Ollama base URL
  -s, --system TEXT    System prompt prepended to every prompt
  -c, --config PATH    Config file (default ~/.shellsage/config.toml)
      --json           Machine-readable output
      --raw            Print answers without markdown rendering
  -f, --force          Overwrite an existing file (config init)
  -q, --quiet          Minimal output
  -v, --verbose        Debug logging on stderr
  --                   End of flags; for ask, flags go before the question

Chat commands:
  /help, /h            Show chat commands
  /history             Show the conversation so far
  /prompt <question>   Show the exact prompt the next question would send
  /clear, /c           Start a fresh conversation
  /model               Show the model in use
  /quit, /q            Exit (Ctrl+D also exits)

Examples:
  shellsage ask "how do I find files larger than 100MB?"
  git diff | shellsage ask "write a commit message for this"
  shellsage ask -s "Answer with a single shell command." "list open ports"
  shellsage chat -m qwen2.5-coder-ctx131072:7b

Environment:
  SHELLSAGE_MODEL, SHELLSAGE_OLLAMA_URL, SHELLSAGE_SYSTEM_PROMPT,
  SHELLSAGE_LOG_LEVEL, SHELLSAGE_MARKDOWN, SHELLSAGE_CONFIG, NO_COLOR

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer, defaultModel string) {
	fmt.Fprintf(w, usageText, defaultModel, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "shellsage version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
