package tui

import "ragbridge/src/ranking"

// Item wraps a ranked snippet so it can be displayed in the results list.
// It implements bubbles/list.Item.
type Item struct {
	Snippet ranking.RankedSnippet
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Snippet.Snippet.Text }

// Title returns the primary text for the item (required by list.Item).
func (i Item) Title() string { return i.Snippet.Snippet.Text }

// Description returns the secondary text for the item (required by list.Item).
func (i Item) Description() string { return i.Snippet.Snippet.FileName }

// Score returns the relevance score for this item.
func (i Item) Score() float64 { return i.Snippet.Snippet.Score }

// Rank returns the 1-based rank of this item within the result set.
func (i Item) Rank() int { return i.Snippet.Rank }
