// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the shellsage command line.
//
// # Commands
//
//   - ask: one question, one answer (PromptClient)
//   - chat: interactive REPL over a Conversation
//   - status: is Ollama reachable and is the model pulled
//   - models: list locally available models
//   - config: show, locate or initialise the config file
//   - version, help
//
// Handlers return errors rather than printing them. main renders the error
// with DisplayError and exits with ExitCodeFor(err).
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	app := cli.NewApp(cfg, logger)
//	if err := app.Run(ctx, cmd, args); err != nil {
//	    cli.DisplayError(os.Stderr, err, args.JSON)
//	    os.Exit(cli.ExitCodeFor(err))
//	}
package cli
