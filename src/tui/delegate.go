package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// listRenderingOverhead accounts for padding added by bubbles/list and panel
// borders.
const listRenderingOverhead = 10

// Delegate renders ranked snippets as table rows.
type Delegate struct {
	RankWidth int
	FileWidth int
	styles    *StyleConfig
}

// NewDelegate creates a new results table delegate with default styles
func NewDelegate() Delegate {
	return Delegate{
		RankWidth: 2,
		FileWidth: 16,
		styles:    DefaultStyles(),
	}
}

// SetColumnWidths sizes the rank and file name columns for the given items.
func (d *Delegate) SetColumnWidths(items []Item) {
	maxRank := 0
	maxFile := 0
	for _, item := range items {
		if item.Rank() > maxRank {
			maxRank = item.Rank()
		}
		if w := VisualWidth(item.Snippet.Snippet.FileName); w > maxFile {
			maxFile = w
		}
	}

	d.RankWidth = len(fmt.Sprintf("%d", maxRank))
	if d.RankWidth < 2 {
		d.RankWidth = 2
	}

	d.FileWidth = maxFile
	if d.FileWidth < 8 {
		d.FileWidth = 8
	}
	if d.FileWidth > 24 {
		d.FileWidth = 24
	}
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	rankFmt := fmt.Sprintf("%%%dd", d.RankWidth)

	rankCol := fmt.Sprintf(rankFmt, entry.Rank())
	scoreCol := fmt.Sprintf("%7.2f", entry.Score())
	fileCol := TruncateAndPad(entry.Snippet.Snippet.FileName, d.FileWidth, true)

	// Fixed columns: rank + score (7) + file + separators (9)
	fixedWidth := d.RankWidth + 7 + d.FileWidth + 9
	availableWidth := m.Width() - fixedWidth - listRenderingOverhead

	var snippet string
	if availableWidth > 0 {
		snippet = TruncateAndPad(CleanDisplayText(entry.Snippet.Snippet.Text), availableWidth, true)
	}

	line := fmt.Sprintf("%s │ %s │ %s │ %s", rankCol, scoreCol, fileCol, snippet)

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if isSelected {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, style.Render(line))
}
