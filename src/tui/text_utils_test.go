package tui

import (
	"strings"
	"testing"
)

func TestCleanDisplayText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "strips ansi color codes",
			input:    "\x1b[31merror\x1b[0m occurred",
			expected: "error occurred",
		},
		{
			name:     "flattens newlines and tabs",
			input:    "line one\nline two\tend",
			expected: "line one line two end",
		},
		{
			name:     "collapses repeated spaces",
			input:    "a    b     c",
			expected: "a b c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanDisplayText(tt.input)
			if got != tt.expected {
				t.Errorf("CleanDisplayText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		ellipsis bool
		expected string
	}{
		{
			name:     "short text unchanged",
			input:    "hello",
			maxLen:   10,
			ellipsis: true,
			expected: "hello",
		},
		{
			name:     "truncates with ellipsis",
			input:    "hello world this is long",
			maxLen:   10,
			ellipsis: true,
			expected: "hello w...",
		},
		{
			name:     "truncates without ellipsis",
			input:    "hello world",
			maxLen:   5,
			ellipsis: false,
			expected: "hello",
		},
		{
			name:     "zero width returns empty",
			input:    "hello",
			maxLen:   0,
			ellipsis: true,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxLen, tt.ellipsis)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d, %v) = %q, want %q",
					tt.input, tt.maxLen, tt.ellipsis, got, tt.expected)
			}
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	got := TruncateAndPad("ab", 5, false)
	if got != "ab   " {
		t.Errorf("TruncateAndPad(\"ab\", 5) = %q, want %q", got, "ab   ")
	}
	if VisualWidth(got) != 5 {
		t.Errorf("padded width = %d, want 5", VisualWidth(got))
	}

	got = TruncateAndPad("abcdefgh", 5, false)
	if VisualWidth(got) != 5 {
		t.Errorf("truncated width = %d, want 5", VisualWidth(got))
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		maxLines int
	}{
		{
			name:     "wraps at word boundaries",
			input:    "the quick brown fox jumps over the lazy dog",
			width:    15,
			maxLines: 4,
		},
		{
			name:     "breaks long words",
			input:    "supercalifragilisticexpialidocious",
			width:    10,
			maxLines: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.input, tt.width)
			lines := strings.Split(got, "\n")
			if len(lines) > tt.maxLines {
				t.Errorf("Wrap produced %d lines, want at most %d", len(lines), tt.maxLines)
			}
			for i, line := range lines {
				if VisualWidth(line) > tt.width {
					t.Errorf("line %d width = %d, exceeds %d: %q",
						i, VisualWidth(line), tt.width, line)
				}
			}
		})
	}
}

func TestWrapZeroWidthReturnsInput(t *testing.T) {
	input := "unchanged text"
	if got := Wrap(input, 0); got != input {
		t.Errorf("Wrap(%q, 0) = %q, want input unchanged", input, got)
	}
}
