// Package tui provides the terminal user interface for browsing retrieval
// results: a ranked snippet list on top and a detail panel with the full
// snippet text below.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragbridge/src/ranking"
)

// BrowseModel is the Bubble Tea model for the results browser.
type BrowseModel struct {
	query          string
	listView       View
	detailViewport viewport.Model
	styles         *StyleConfig

	width         int
	height        int
	ready         bool
	detailFocused bool
}

// NewBrowseModel creates a browser for the given query's ranked snippets.
func NewBrowseModel(query string, ranked []ranking.RankedSnippet) BrowseModel {
	listView := NewView()

	items := make([]Item, len(ranked))
	for i, r := range ranked {
		items[i] = Item{Snippet: r}
	}
	listView.SetItems(items)

	return BrowseModel{
		query:    query,
		listView: listView,
		styles:   DefaultStyles(),
	}
}

// Init initializes the model. Required by tea.Model interface.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeComponents()
		if item, ok := m.listView.GetSelectedItem(); ok {
			m.updateDetailContent(item)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "enter", "tab":
			m.detailFocused = !m.detailFocused
			return m, nil

		case "esc":
			m.detailFocused = false
			return m, nil
		}

		if m.detailFocused {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.listView, cmd = m.listView.Update(msg)
		if item, ok := m.listView.GetSelectedItem(); ok {
			m.updateDetailContent(item)
		}
		return m, cmd
	}

	return m, nil
}

// View renders the complete split-view layout.
func (m BrowseModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.renderHeader()

	if len(m.listView.items) == 0 {
		empty := lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			PaddingTop(2).
			Foreground(m.styles.TextSecondary).
			Render("No results found in the knowledge base.")
		return lipgloss.JoinVertical(lipgloss.Left, header, empty)
	}

	listHeight, detailHeight := m.panelHeights()

	listPanel := m.renderListPanel(listHeight)
	detailPanel := m.renderDetailPanel(detailHeight)
	help := m.renderHelpText()

	return lipgloss.JoinVertical(lipgloss.Left, header, listPanel, detailPanel, help)
}

// panelHeights splits the available height: list on top (1/3), detail below.
func (m BrowseModel) panelHeights() (int, int) {
	// Overhead: header (1) + column header (1) + borders (4) + help (1)
	available := m.height - 7
	if available < 6 {
		available = 6
	}
	listHeight := available / 3
	if listHeight < 3 {
		listHeight = 3
	}
	return listHeight, available - listHeight
}

// renderHeader renders the query status line.
func (m BrowseModel) renderHeader() string {
	text := fmt.Sprintf("ragbridge │ query: %q │ %d results",
		m.query, len(m.listView.items))
	return m.styles.TitleStyle().Width(m.width).Render(Truncate(text, m.width-2, true))
}

// renderListPanel renders the top panel with the ranked snippet list.
func (m BrowseModel) renderListPanel(height int) string {
	delegate := m.listView.GetDelegate()
	rankHeader := fmt.Sprintf("%*s", delegate.RankWidth, "Rk")
	fileHeader := TruncateAndPad("Document", delegate.FileWidth, false)

	headerText := fmt.Sprintf("%s │   Score │ %s │ Snippet", rankHeader, fileHeader)
	headerRow := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Width(m.width - 2).
		Padding(0, 1).
		Render(Truncate(headerText, m.width-4, true))

	borderColor := m.styles.AccentBlue
	if m.detailFocused {
		borderColor = m.styles.BorderColor
	}

	panel := m.styles.PanelStyle().
		BorderForeground(borderColor).
		Width(m.width - 2).
		Height(height).
		Render(m.listView.Render())

	return lipgloss.JoinVertical(lipgloss.Left, headerRow, panel)
}

// renderDetailPanel renders the bottom panel with the full snippet text.
func (m BrowseModel) renderDetailPanel(height int) string {
	borderColor := m.styles.BorderColor
	if m.detailFocused {
		borderColor = m.styles.AccentBlue
	}

	return m.styles.PanelStyle().
		BorderForeground(borderColor).
		Width(m.width - 2).
		Height(height).
		Render(m.detailViewport.View())
}

// renderDetail builds the detail content for a result item.
func (m BrowseModel) renderDetail(item Item, maxWidth int) string {
	content := strings.Builder{}

	header := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Render(fmt.Sprintf("Rank: %d | Score: %.2f | Document: %s",
			item.Rank(), item.Score(), item.Snippet.Snippet.FileName))
	fmt.Fprintf(&content, "%s\n\n", header)

	scoreLabel := lipgloss.NewStyle().Foreground(m.styles.ScoreColor).Bold(true).Render("Snippet:")
	fmt.Fprintln(&content, scoreLabel)

	wrapped := Wrap(item.Snippet.Snippet.Text, maxWidth)
	fmt.Fprint(&content, lipgloss.NewStyle().Foreground(m.styles.TextPrimary).Render(wrapped))

	return content.String()
}

// updateDetailContent updates the viewport with content from the selected item
func (m *BrowseModel) updateDetailContent(item Item) {
	maxWidth := m.detailViewport.Width - 2
	if maxWidth < 20 {
		maxWidth = 20
	}
	m.detailViewport.SetContent(m.renderDetail(item, maxWidth))
	m.detailViewport.GotoTop()
}

// renderHelpText renders context-aware help text at the bottom
func (m BrowseModel) renderHelpText() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)

	var helpText string
	if m.detailFocused {
		helpText = fmt.Sprintf("%s: Scroll %s %s: Back %s %s: Quit",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("Esc"), sepStyle.Render("•"),
			keyStyle.Render("q"))
	} else {
		helpText = fmt.Sprintf("%s: Nav %s %s: Focus detail %s %s: Quit",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("Enter"), sepStyle.Render("•"),
			keyStyle.Render("q"))
	}

	return m.styles.HelpStyle().Render(helpText)
}

// resizeComponents handles window resize events
func (m *BrowseModel) resizeComponents() {
	listHeight, detailHeight := m.panelHeights()

	m.listView.SetSize(m.width-4, listHeight)

	m.detailViewport.Width = m.width - 4
	m.detailViewport.Height = detailHeight
}

// Run starts the results browser and blocks until the user quits.
func Run(query string, ranked []ranking.RankedSnippet) error {
	model := NewBrowseModel(query, ranked)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run results browser: %w", err)
	}
	return nil
}
