package rag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuery is returned for empty or non-printable query strings.
	ErrEmptyQuery = errors.New("query must be non-empty printable text")
)

// UserError wraps errors with user-friendly messages for CLI and MCP output.
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts API errors to user-friendly messages.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrEmptyQuery) {
		return &UserError{
			Message: "Invalid query",
			Hint:    "Provide a non-empty query without control characters.",
			Err:     err,
		}
	}

	msg := err.Error()

	if strings.Contains(msg, "status 401") || strings.Contains(msg, "status 403") {
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that your API keys are valid.\n  - GroundX: Set GROUNDX_API_KEY\n  - OpenAI: Set OPENAI_API_KEY",
			Err:     err,
		}
	}

	if strings.Contains(msg, "status 404") {
		return &UserError{
			Message: "Resource not found",
			Hint:    "Check that GROUNDX_BUCKET_ID refers to an existing bucket you have access to.",
			Err:     err,
		}
	}

	if strings.Contains(msg, "status 429") {
		return &UserError{
			Message: "Rate limited",
			Hint:    "The external service is throttling requests. Wait a moment and try again.",
			Err:     err,
		}
	}

	return err
}
