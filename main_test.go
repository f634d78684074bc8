// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shellsage/internal/cli"
)

func writeBadConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("bogus_key = 1\n"), 0o600))
	return path
}

func TestRun_JSONErrorsGoToStdout(t *testing.T) {
	tests := []struct {
		name     string
		argv     func(t *testing.T) []string
		wantCode int
	}{
		{
			name:     "parse error",
			argv:     func(t *testing.T) []string { return []string{"--json", "--temperature", "1", "status"} },
			wantCode: cli.ExitUsageError,
		},
		{
			name:     "config error",
			argv:     func(t *testing.T) []string { return []string{"--json", "-c", writeBadConfig(t), "status"} },
			wantCode: cli.ExitConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.argv(t), &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stderr.String())

			var resp map[string]any
			require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp), stdout.String())
			assert.Equal(t, false, resp["success"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestRun_PlainErrorsGoToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", writeBadConfig(t), "status"}, &stdout, &stderr)

	assert.Equal(t, cli.ExitConfigError, code)
	assert.Empty(t, stdout.String())
	assert.NotEmpty(t, stderr.String())
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--version"}, &stdout, &stderr)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout.String(), Version)
}
