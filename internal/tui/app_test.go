package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/knowdock/internal/config"
	"github.com/user/knowdock/internal/db"
	"github.com/user/knowdock/internal/extensions"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	store, err := db.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{DataDir: t.TempDir()}
	return initialModel(cfg, store, extensions.NewRegistry(store))
}

func TestInitialModel_ListFocused(t *testing.T) {
	m := newTestModel(t)

	// TUI should start with list focused (searching=false)
	if m.searching {
		t.Error("expected searching=false on init, got true")
	}

	// Search input should be blurred
	if m.searchInput.Focused() {
		t.Error("expected search input blurred on init, got focused")
	}
}

func TestUpdate_SlashFocusesSearch(t *testing.T) {
	m := newTestModel(t)

	// Simulate pressing '/'
	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = newModel.(model)

	if !m.searching {
		t.Error("expected searching=true after pressing /, got false")
	}
	if !m.searchInput.Focused() {
		t.Error("expected search input focused after pressing /")
	}
}

func TestUpdate_EscUnfocusesSearch(t *testing.T) {
	m := newTestModel(t)

	// First focus search
	m.searching = true
	m.searchInput.Focus()

	// Simulate pressing Esc
	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = newModel.(model)

	if m.searching {
		t.Error("expected searching=false after pressing Esc, got true")
	}
	if m.searchInput.Focused() {
		t.Error("expected search input blurred after pressing Esc")
	}
}

func TestUpdate_QQuitsOnlyFromList(t *testing.T) {
	m := newTestModel(t)

	// When in list mode (searching=false), q should quit
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("expected quit command when pressing q from list mode")
	}

	// When in search mode (searching=true), q is typed into the input
	m.searching = true
	m.searchInput.Focus()
	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = newModel.(model)
	if m.searchInput.Value() != "q" {
		t.Errorf("expected q to land in the search input, got %q", m.searchInput.Value())
	}
}

func TestUpdate_SourceToggleFiltersResults(t *testing.T) {
	m := newTestModel(t)
	m.results = []extensions.Result{
		{Extension: "arxiv", Resource: db.Resource{ID: "1", Title: "paper"}},
		{Extension: "wikipedia", Resource: db.Resource{ID: "2", Title: "article"}},
	}
	m.list.SetItems(m.resultsToItems(m.results))

	// Toggle arxiv off
	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = newModel.(model)
	if m.sources["arxiv"] {
		t.Error("expected arxiv filter off after pressing 1")
	}
	if cmd == nil {
		t.Fatal("expected a filter command")
	}

	msg, ok := cmd().(searchMsg)
	if !ok {
		t.Fatal("expected a searchMsg from the filter command")
	}
	if len(msg.results) != 1 || msg.results[0].Extension != "wikipedia" {
		t.Errorf("expected only the wikipedia result, got %v", msg.results)
	}
}

func TestUpdate_JKNavigatesInListMode(t *testing.T) {
	m := newTestModel(t)

	// j/k should work immediately since searching=false by default
	if m.searching {
		t.Error("precondition failed: searching should be false")
	}

	// Note: Can't fully test cursor movement without list items,
	// but we can verify j/k are processed without error
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
}
