// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"

	"golang.org/x/term"
)

// NoColor reports whether console log output should be uncoloured:
// NO_COLOR is set or stderr is not a terminal.
func NoColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !term.IsTerminal(int(os.Stderr.Fd()))
}
