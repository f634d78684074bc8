// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeServer
	ErrTypeInvalidResponse
	ErrTypeCanceled
)

// String returns a short name for the error category.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeServer:
		return "server"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ClientError represents a failed call to the Ollama server.
// StatusCode and Body are set only for ErrTypeServer.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Body       string
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches any ClientError of the same Type, so the sentinels below work
// with errors.Is regardless of message or cause.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Sentinel errors for easy checking.
var (
	ErrNotRunning = &ClientError{Type: ErrTypeConnection, Message: "Ollama is not running"}
	ErrCanceled   = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}

	// ErrEmptyQuery is returned before any network call when the query is blank.
	ErrEmptyQuery = errors.New("query must not be empty")
)

func newServerError(status int, body string) *ClientError {
	body = strings.TrimSpace(body)
	msg := fmt.Sprintf("ollama returned HTTP %d", status)
	if detail := serverDetail(body); detail != "" {
		msg += ": " + detail
	}
	return &ClientError{
		Type:       ErrTypeServer,
		Message:    msg,
		StatusCode: status,
		Body:       body,
	}
}

// =============================================================================
// PREDICATES
// =============================================================================

// IsConnection checks if an error means the server could not be reached.
func IsConnection(err error) bool {
	return errors.Is(err, ErrNotRunning)
}

// IsServer checks if an error is a non-2xx HTTP response.
func IsServer(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeServer
	}
	return false
}

// IsCanceled checks if an error came from context cancellation or deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// StatusCode returns the HTTP status carried by a server error, or 0.
func StatusCode(err error) int {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}
	return 0
}

// =============================================================================
// OPERATOR MESSAGES
// =============================================================================

// Explain renders err as a single line for an operator at a terminal.
// It is for display only; callers still decide success from the error value.
func Explain(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyQuery) {
		return "Error: nothing to ask. Provide a question."
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return "Error: " + err.Error()
	}

	switch clientErr.Type {
	case ErrTypeConnection:
		return "Error: could not connect to Ollama. Make sure it is running with 'ollama serve'."
	case ErrTypeServer:
		body := clientErr.Body
		if body == "" {
			body = "(empty body)"
		}
		return fmt.Sprintf("Error: Ollama returned HTTP %d: %s", clientErr.StatusCode, body)
	case ErrTypeCanceled:
		return "Request canceled."
	case ErrTypeInvalidResponse:
		return "Error: unexpected response from Ollama: " + clientErr.Error()
	default:
		return "Error: " + clientErr.Error()
	}
}

// serverDetail pulls the "error" field out of an Ollama error body, falling
// back to the raw text.
func serverDetail(body string) string {
	if body == "" {
		return ""
	}
	if msg := decodeAPIError(body); msg != "" {
		return msg
	}
	return body
}
