// Package ranking orders and deduplicates retrieved snippets before prompt
// assembly. GroundX owns retrieval ranking; this package only enforces a
// stable order, removes near-duplicate snippets, and keeps the assembled
// context within a byte budget so the prompt stays inside model limits.
package ranking

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"ragbridge/src/groundx"
	"ragbridge/src/sanitize"
)

// DefaultContextBudget is the maximum number of bytes of snippet text placed
// into a prompt. Roughly 6k tokens, leaving headroom for instructions and
// the user query.
const DefaultContextBudget = 24 * 1024

// SnippetSeparator delimits snippets in the assembled context.
const SnippetSeparator = "\n---\n"

var whitespacePattern = regexp.MustCompile(`\s+`)

// RankedSnippet wraps a snippet with its position in the final order.
type RankedSnippet struct {
	Snippet groundx.Snippet
	Rank    int // 1-indexed position after sorting and deduplication
}

// RankSnippets sorts snippets by score (descending) and removes duplicates.
// Snippets whose normalized text matches an earlier, higher-scored snippet
// are dropped; the first occurrence wins.
func RankSnippets(snippets []groundx.Snippet) []RankedSnippet {
	if len(snippets) == 0 {
		return nil
	}

	sorted := make([]groundx.Snippet, len(snippets))
	copy(sorted, snippets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	seen := make(map[string]bool)
	var ranked []RankedSnippet

	for _, s := range sorted {
		hash := TextHash(s.Text)
		if seen[hash] {
			continue
		}
		seen[hash] = true

		ranked = append(ranked, RankedSnippet{
			Snippet: s,
			Rank:    len(ranked) + 1,
		})
	}

	return ranked
}

// BuildContext joins cleaned snippet texts, highest score first, stopping
// before the byte budget is exceeded. A budget <= 0 uses DefaultContextBudget.
// Returns the assembled context and the number of snippets included.
func BuildContext(ranked []RankedSnippet, budget int) (string, int) {
	if budget <= 0 {
		budget = DefaultContextBudget
	}

	var sb strings.Builder
	included := 0

	for _, r := range ranked {
		text := sanitize.CleanSnippet(r.Snippet.Text)
		if text == "" {
			continue
		}

		need := len(text)
		if included > 0 {
			need += len(SnippetSeparator)
		}
		if sb.Len()+need > budget {
			// Always include at least one snippet, truncated to the budget.
			// Back off to a rune boundary so the cut never splits a
			// multi-byte character.
			if included == 0 {
				cut := budget
				for cut > 0 && !utf8.RuneStart(text[cut]) {
					cut--
				}
				sb.WriteString(text[:cut])
				included++
			}
			break
		}

		if included > 0 {
			sb.WriteString(SnippetSeparator)
		}
		sb.WriteString(text)
		included++
	}

	return sb.String(), included
}

// TextHash returns a stable hash of normalized snippet text, used for
// duplicate detection across overlapping retrievals.
func TextHash(text string) string {
	normalized := normalizeText(text)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:8])
}

// normalizeText lowercases and collapses whitespace so that snippets differing
// only in formatting hash identically.
func normalizeText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	return whitespacePattern.ReplaceAllString(text, " ")
}
