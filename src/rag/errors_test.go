package rag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "empty query",
			err:         fmt.Errorf("validating: %w", ErrEmptyQuery),
			wantMessage: "Invalid query",
		},
		{
			name:        "auth failure",
			err:         errors.New("API request failed with status 401: unauthorized"),
			wantMessage: "Authentication failed",
		},
		{
			name:        "missing bucket",
			err:         errors.New("API request failed with status 404: bucket not found"),
			wantMessage: "Resource not found",
		},
		{
			name:        "rate limited",
			err:         errors.New("API request failed with status 429: slow down"),
			wantMessage: "Rate limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err)

			var userErr *UserError
			if !errors.As(wrapped, &userErr) {
				t.Fatalf("WrapError(%v) did not produce a UserError", tt.err)
			}
			if userErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", userErr.Message, tt.wantMessage)
			}
			if !errors.Is(wrapped, tt.err) && !strings.Contains(userErr.Error(), tt.err.Error()) {
				t.Error("wrapped error lost the original error")
			}
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		if WrapError(nil) != nil {
			t.Error("WrapError(nil) should be nil")
		}
	})

	t.Run("unknown errors pass through", func(t *testing.T) {
		err := errors.New("connection refused")
		if WrapError(err) != err {
			t.Errorf("WrapError() should pass through unrecognized errors")
		}
	})
}
