// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - error types, exit codes and error display for CLI commands.
//
// Handlers always return errors; DisplayError and ExitCodeFor are applied
// once, in main.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/shellsage/internal/ollama"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error, including HTTP
	// errors returned by Ollama
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates Ollama could not be reached or the
	// request was canceled
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "config")
	Action  string // Action being performed (e.g., "init")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid usage (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ConfigError reports a config file that could not be loaded or written.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %v", e.Err)
	}
	return fmt.Sprintf("config error (%s): %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Example: example}
}

// ErrMissingArgument creates an error for a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return NewValidationErrorWithExample(argName, "", "required argument missing", usage)
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCodeFor maps an error to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, ollama.ErrEmptyQuery) {
		return ExitUsageError
	}

	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return ExitConfigError
	}

	if ollama.IsConnection(err) || ollama.IsCanceled(err) {
		return ExitNetworkError
	}

	return ExitGeneralError
}

// errorType names the error category in JSON output.
func errorType(err error) string {
	var validationErr *ValidationError
	var configErr *ConfigError
	var clientErr *ollama.ClientError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, ollama.ErrEmptyQuery):
		return "usage_error"
	case errors.As(err, &configErr):
		return "config_error"
	case errors.As(err, &clientErr):
		return clientErr.Type.String()
	default:
		return "error"
	}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// ReportError writes err with DisplayError. In JSON mode it goes to stdout
// with every other result; otherwise to stderr.
func ReportError(stdout, stderr io.Writer, err error, jsonMode bool) {
	w := stderr
	if jsonMode {
		w = stdout
	}
	DisplayError(w, err, jsonMode)
}

// DisplayError writes err to w. In JSON mode it writes a JSONResponse with
// success=false; otherwise one styled line from ollama.Explain.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		resp := NewJSONErrorResponse("", err)
		if encErr := resp.Print(w); encErr != nil {
			fmt.Fprintln(w, ollama.Explain(err))
		}
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render(ollama.Explain(err)))
}
