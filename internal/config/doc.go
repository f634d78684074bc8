// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for shellsage.
//
// Configuration is read from a TOML file, overlaid with environment
// variables, filled with defaults and validated. There is no process-wide
// config: callers load a *Config and pass it down.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SHELLSAGE_*)
//   - $SHELLSAGE_CONFIG or ~/.shellsage/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := ollama.NewClientWithConfig(cfg.ClientConfig())
package config
