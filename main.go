// shellsage - ask a local Ollama model from the shell.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/shellsage/internal/cli"
	"github.com/jeranaias/shellsage/internal/config"
	"github.com/jeranaias/shellsage/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.ReportError(stdout, stderr, err, args.JSON)
		if !args.JSON {
			fmt.Fprintln(stderr, "Run 'shellsage help' for usage.")
		}
		return cli.ExitCodeFor(err)
	}

	if cmd == cli.CmdVersion {
		cli.PrintVersion(stdout)
		return cli.ExitSuccess
	}

	cfg, err := loadConfig(args)
	if err != nil {
		cli.ReportError(stdout, stderr, err, args.JSON)
		return cli.ExitCodeFor(err)
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}

	logger := logging.New(cfg.Log, stderr)
	app := cli.NewApp(cfg, logger)
	app.Stdout, app.Stderr = stdout, stderr

	// chat installs its own per-request interrupt handling.
	ctx := context.Background()
	if cmd != cli.CmdChat {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	if err := app.Run(ctx, cmd, args); err != nil {
		logger.Debug().Err(err).Str("command", cmd.String()).Msg("command failed")
		cli.ReportError(stdout, stderr, err, args.JSON)
		return cli.ExitCodeFor(err)
	}
	return cli.ExitSuccess
}

// loadConfig reads --config when given, otherwise the default location.
func loadConfig(args cli.Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &cli.ConfigError{Path: args.ConfigPath, Err: err}
	}
	return cfg, nil
}
