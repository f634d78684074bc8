// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/shellsage/internal/config"
	"github.com/jeranaias/shellsage/internal/ui/styles"
)

// HandleConfig handles "config [show|path|init]".
func (a *App) HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		fmt.Fprint(a.Stdout, a.Config.String())
		return nil
	case "path":
		path, err := a.configPath(args)
		if err != nil {
			return &ConfigError{Err: err}
		}
		fmt.Fprintln(a.Stdout, path)
		return nil
	case "init":
		return a.initConfig(args)
	default:
		return NewValidationErrorWithExample("config subcommand", args.Subcommand,
			"must be show, path or init", "shellsage config init")
	}
}

func (a *App) configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPath()
}

// initConfig writes a default config file. An existing file is kept
// unless --force is given.
func (a *App) initConfig(args Args) error {
	path, err := a.configPath(args)
	if err != nil {
		return &ConfigError{Err: err}
	}

	if _, statErr := os.Stat(path); statErr == nil && !args.Force {
		return NewCommandError("config", "init", "file already exists (use --force to overwrite)",
			&ConfigError{Path: path, Err: os.ErrExist})
	} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return &ConfigError{Path: path, Err: statErr}
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	fmt.Fprintln(a.Stdout, styles.RenderSuccess("Wrote "+path))
	return nil
}
