// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdHelp},
		{[]string{"help"}, CmdHelp},
		{[]string{"--help"}, CmdHelp},
		{[]string{"ask", "hi"}, CmdAsk},
		{[]string{"a", "hi"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"models"}, CmdModels},
		{[]string{"ls"}, CmdModels},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"ASK", "x"}, CmdAsk},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, "_"), func(t *testing.T) {
			cmd, _, err := Parse(tt.argv)
			if err != nil {
				t.Fatalf("Parse(%v) error = %v", tt.argv, err)
			}
			if cmd != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParse_AskArgs(t *testing.T) {
	cmd, args, err := Parse([]string{"ask", "-m", "llama3", "--url", "http://h:1", "-s", "Be terse.", "--json", "list", "open", "ports"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want ask", cmd)
	}
	if args.Model != "llama3" {
		t.Errorf("Model = %q, want %q", args.Model, "llama3")
	}
	if args.URL != "http://h:1" {
		t.Errorf("URL = %q", args.URL)
	}
	if !args.SystemSet || args.System != "Be terse." {
		t.Errorf("System = %q (set=%v)", args.System, args.SystemSet)
	}
	if !args.JSON {
		t.Error("JSON should be true")
	}
	if args.Query != "list open ports" {
		t.Errorf("Query = %q, want %q", args.Query, "list open ports")
	}
}

func TestParse_AskKeepsFlagsInQuestion(t *testing.T) {
	tests := []struct {
		argv      []string
		wantQuery string
		wantModel string
	}{
		{[]string{"ask", "what", "does", "ls", "-h", "do"}, "what does ls -h do", ""},
		{[]string{"ask", "explain", "--version"}, "explain --version", ""},
		{[]string{"a", "-m", "llama3", "what", "is", "rm", "-rf", "--help"}, "what is rm -rf --help", "llama3"},
		{[]string{"ask", "--", "-v", "means", "what"}, "-v means what", ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, "_"), func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			if err != nil {
				t.Fatalf("Parse(%v) error = %v", tt.argv, err)
			}
			if cmd != CmdAsk {
				t.Errorf("cmd = %v, want ask", cmd)
			}
			if args.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", args.Query, tt.wantQuery)
			}
			if args.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", args.Model, tt.wantModel)
			}
		})
	}
}

func TestParse_HelpFlagOutsideAsk(t *testing.T) {
	cmd, _, err := Parse([]string{"status", "-h"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd != CmdHelp {
		t.Errorf("cmd = %v, want help", cmd)
	}
}

func TestParse_SystemAbsent(t *testing.T) {
	_, args, err := Parse([]string{"ask", "q"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if args.SystemSet {
		t.Error("SystemSet should be false without -s")
	}
}

func TestParse_ConfigSubcommand(t *testing.T) {
	_, args, err := Parse([]string{"config", "init", "--force", "-c", "/tmp/x.toml"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if args.Subcommand != "init" || !args.Force || args.ConfigPath != "/tmp/x.toml" {
		t.Errorf("args = %+v", args)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"ask", "--temperature", "0.2", "q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.argv)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Parse(%v) error = %v, want *ValidationError", tt.argv, err)
			}
			if ExitCodeFor(err) != ExitUsageError {
				t.Errorf("ExitCodeFor = %d, want %d", ExitCodeFor(err), ExitUsageError)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	if CmdAsk.String() != "ask" || CmdModels.String() != "models" || Command(99).String() != "help" {
		t.Error("Command.String() mismatch")
	}
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf, "mistral")
	if !strings.Contains(buf.String(), "shellsage ask") || !strings.Contains(buf.String(), "mistral") {
		t.Errorf("usage text missing content:\n%s", buf.String())
	}

	for _, env := range []string{
		"SHELLSAGE_MODEL", "SHELLSAGE_OLLAMA_URL", "SHELLSAGE_SYSTEM_PROMPT",
		"SHELLSAGE_LOG_LEVEL", "SHELLSAGE_MARKDOWN", "SHELLSAGE_CONFIG", "NO_COLOR",
	} {
		if !strings.Contains(buf.String(), env) {
			t.Errorf("usage text does not mention %s", env)
		}
	}

	buf.Reset()
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "shellsage version "+Version) {
		t.Errorf("version output = %q", buf.String())
	}
}
