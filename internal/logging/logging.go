// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog logger used for shellsage diagnostics.
// Answers go to stdout; logs always go to the writer given here (stderr in
// the CLI) so piping an answer never mixes in log lines.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/shellsage/internal/config"
)

// DefaultLevel is used when the configured level cannot be parsed.
const DefaultLevel = zerolog.WarnLevel

// New returns a logger writing to w at cfg.Level in cfg.Format.
// An unknown level falls back to DefaultLevel and logs a warning. The CLI
// never reaches that path because config.Validate rejects such levels
// first; it serves callers that build a LogConfig by hand.
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	var out io.Writer = w
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    NoColor(),
			TimeFormat: time.Kitchen,
		}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()

	level, err := ParseLevel(cfg.Level)
	logger = logger.Level(level)
	if err != nil {
		logger.Warn().Err(err).Str("level", cfg.Level).
			Msgf("invalid log level, using %q", DefaultLevel.String())
	}
	return logger
}

// ParseLevel maps a config level name to a zerolog level. Empty means
// DefaultLevel.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return DefaultLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		if err == nil {
			err = errInvalidLevel(s)
		}
		return DefaultLevel, err
	}
	return level, nil
}

type errInvalidLevel string

func (e errInvalidLevel) Error() string {
	return "unknown log level: " + string(e)
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
