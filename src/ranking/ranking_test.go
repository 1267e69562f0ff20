package ranking

import (
	"strings"
	"testing"
	"unicode/utf8"

	"ragbridge/src/groundx"
)

func TestRankSnippets(t *testing.T) {
	t.Run("sorts by score descending", func(t *testing.T) {
		snippets := []groundx.Snippet{
			{Text: "low relevance", Score: 10},
			{Text: "high relevance", Score: 90},
			{Text: "mid relevance", Score: 50},
		}

		ranked := RankSnippets(snippets)
		if len(ranked) != 3 {
			t.Fatalf("len = %d, want 3", len(ranked))
		}
		if ranked[0].Snippet.Text != "high relevance" {
			t.Errorf("ranked[0] = %q, want high relevance", ranked[0].Snippet.Text)
		}
		if ranked[2].Snippet.Text != "low relevance" {
			t.Errorf("ranked[2] = %q, want low relevance", ranked[2].Snippet.Text)
		}
		for i, r := range ranked {
			if r.Rank != i+1 {
				t.Errorf("ranked[%d].Rank = %d, want %d", i, r.Rank, i+1)
			}
		}
	})

	t.Run("dedupes normalized text keeping highest score", func(t *testing.T) {
		snippets := []groundx.Snippet{
			{Text: "Total   Revenue: $4.2M", Score: 80},
			{Text: "total revenue: $4.2m", Score: 40},
			{Text: "unrelated", Score: 60},
		}

		ranked := RankSnippets(snippets)
		if len(ranked) != 2 {
			t.Fatalf("len = %d, want 2 after dedupe", len(ranked))
		}
		if ranked[0].Snippet.Score != 80 {
			t.Errorf("kept score = %v, want 80", ranked[0].Snippet.Score)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if ranked := RankSnippets(nil); ranked != nil {
			t.Errorf("RankSnippets(nil) = %v, want nil", ranked)
		}
	})
}

func TestBuildContext(t *testing.T) {
	t.Run("joins snippets in rank order", func(t *testing.T) {
		ranked := RankSnippets([]groundx.Snippet{
			{Text: "second", Score: 50},
			{Text: "first", Score: 90},
		})

		ctx, n := BuildContext(ranked, 0)
		if n != 2 {
			t.Fatalf("included = %d, want 2", n)
		}
		want := "first" + SnippetSeparator + "second"
		if ctx != want {
			t.Errorf("context = %q, want %q", ctx, want)
		}
	})

	t.Run("respects byte budget", func(t *testing.T) {
		ranked := RankSnippets([]groundx.Snippet{
			{Text: strings.Repeat("a", 100), Score: 90},
			{Text: strings.Repeat("b", 100), Score: 50},
		})

		ctx, n := BuildContext(ranked, 120)
		if n != 1 {
			t.Fatalf("included = %d, want 1", n)
		}
		if strings.Contains(ctx, "b") {
			t.Error("budget exceeded: second snippet included")
		}
	})

	t.Run("truncates single oversized snippet", func(t *testing.T) {
		ranked := RankSnippets([]groundx.Snippet{
			{Text: strings.Repeat("a", 200), Score: 90},
		})

		ctx, n := BuildContext(ranked, 50)
		if n != 1 {
			t.Fatalf("included = %d, want 1", n)
		}
		if len(ctx) != 50 {
			t.Errorf("context len = %d, want 50", len(ctx))
		}
	})

	t.Run("oversized truncation stays on rune boundaries", func(t *testing.T) {
		// Budget lands mid-rune: each character is 3 bytes in UTF-8.
		ranked := RankSnippets([]groundx.Snippet{
			{Text: strings.Repeat("营", 40), Score: 90},
		})

		ctx, n := BuildContext(ranked, 50)
		if n != 1 {
			t.Fatalf("included = %d, want 1", n)
		}
		if !utf8.ValidString(ctx) {
			t.Errorf("context is not valid UTF-8: %q", ctx)
		}
		if len(ctx) > 50 {
			t.Errorf("context len = %d, exceeds budget 50", len(ctx))
		}
		if len(ctx) != 48 {
			t.Errorf("context len = %d, want 48 (16 complete runes)", len(ctx))
		}
	})

	t.Run("skips snippets that clean to empty", func(t *testing.T) {
		ranked := RankSnippets([]groundx.Snippet{
			{Text: "  \n ", Score: 90},
			{Text: "real content", Score: 50},
		})

		ctx, n := BuildContext(ranked, 0)
		if n != 1 {
			t.Fatalf("included = %d, want 1", n)
		}
		if ctx != "real content" {
			t.Errorf("context = %q, want real content", ctx)
		}
	})

	t.Run("empty ranked list", func(t *testing.T) {
		ctx, n := BuildContext(nil, 0)
		if ctx != "" || n != 0 {
			t.Errorf("BuildContext(nil) = (%q, %d), want empty", ctx, n)
		}
	})
}

func TestTextHash(t *testing.T) {
	if TextHash("Total  Revenue") != TextHash("total revenue") {
		t.Error("TextHash should be whitespace and case insensitive")
	}
	if TextHash("alpha") == TextHash("beta") {
		t.Error("TextHash collision on different text")
	}
}
