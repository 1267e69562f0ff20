package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ragbridge/src/groundx"
	"ragbridge/src/ranking"
)

func testSnippets() []ranking.RankedSnippet {
	return []ranking.RankedSnippet{
		{Snippet: groundx.Snippet{DocumentID: "d1", FileName: "report.pdf", Text: "Revenue grew 12% in Q3.", Score: 142.5}, Rank: 1},
		{Snippet: groundx.Snippet{DocumentID: "d2", FileName: "notes.pdf", Text: "Margins held steady.", Score: 98.1}, Rank: 2},
	}
}

func TestNewBrowseModelItems(t *testing.T) {
	m := NewBrowseModel("revenue", testSnippets())

	if len(m.listView.items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.listView.items))
	}

	item, ok := m.listView.GetSelectedItem()
	if !ok {
		t.Fatal("expected a selected item")
	}
	if item.Rank() != 1 {
		t.Errorf("selected rank = %d, want 1", item.Rank())
	}
	if item.Score() != 142.5 {
		t.Errorf("selected score = %v, want 142.5", item.Score())
	}
}

func TestBrowseModelViewAfterResize(t *testing.T) {
	m := NewBrowseModel("revenue", testSnippets())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model := updated.(BrowseModel)

	view := model.View()
	if !strings.Contains(view, "revenue") {
		t.Error("view should contain the query")
	}
	if !strings.Contains(view, "2 results") {
		t.Error("view should show the result count")
	}
}

func TestBrowseModelEmptyResults(t *testing.T) {
	m := NewBrowseModel("nothing", nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model := updated.(BrowseModel)

	if !strings.Contains(model.View(), "No results") {
		t.Error("view should show the empty state")
	}
}

func TestBrowseModelQuit(t *testing.T) {
	m := NewBrowseModel("revenue", testSnippets())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("command = %v, want tea.Quit", msg)
	}
}
