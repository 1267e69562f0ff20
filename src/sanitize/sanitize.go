// Package sanitize provides utilities for cleaning retrieved snippet text
// before it is placed into a prompt or an MCP tool response. Extracted PDF
// text frequently carries control characters and runs of blank lines that
// waste prompt budget and confuse the model.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// ANSI escape codes: \x1b[...m (SGR sequences)
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// Control characters other than tab and newline.
	controlPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

	// Three or more consecutive newlines collapse to a paragraph break.
	blankRunPattern = regexp.MustCompile(`\n{3,}`)

	// Queries reject every control character, tab and newline included.
	// Snippet cleaning keeps those two; query text is a single line.
	queryControlPattern = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// CleanSnippet normalizes snippet text for LLM consumption: strips ANSI
// escapes and control characters, collapses blank-line runs, and trims
// surrounding whitespace.
func CleanSnippet(s string) string {
	s = ansiPattern.ReplaceAllString(s, "")
	s = controlPattern.ReplaceAllString(s, "")
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// IsPrintableQuery reports whether a query contains only printable text.
// Queries with embedded control characters, newlines, or tabs are rejected
// before any API call.
func IsPrintableQuery(q string) bool {
	if strings.TrimSpace(q) == "" {
		return false
	}
	return !queryControlPattern.MatchString(q)
}
