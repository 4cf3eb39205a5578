package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/knowdock/internal/config"
	"github.com/user/knowdock/internal/db"
	"github.com/user/knowdock/internal/extensions"
)

type model struct {
	cfg         *config.Config
	store       *db.Store
	registry    *extensions.Registry
	searchInput textinput.Model
	list        list.Model
	results     []extensions.Result
	sources     map[string]bool // extension filter toggles
	width       int
	height      int
	searching   bool
	status      string
	err         error
}

type resultItem struct {
	result extensions.Result
}

func (r resultItem) Title() string {
	icon := sourceIcon(r.result.Extension)
	return fmt.Sprintf("%s %s", icon, r.result.Resource.Title)
}

func (r resultItem) Description() string {
	if r.result.Resource.Description != "" {
		desc := r.result.Resource.Description
		if len(desc) > 80 {
			desc = desc[:80] + "..."
		}
		return desc
	}
	return r.result.Resource.URL
}

func (r resultItem) FilterValue() string {
	return r.result.Resource.Title + " " + r.result.Resource.Author + " " + r.result.Resource.Description
}

func sourceIcon(extension string) string {
	switch extension {
	case "arxiv":
		return "[A]"
	case "wikipedia":
		return "[W]"
	case "openlibrary":
		return "[O]"
	case "crossref":
		return "[C]"
	case "doaj":
		return "[D]"
	default:
		return "[?]"
	}
}

func initialModel(cfg *config.Config, store *db.Store, registry *extensions.Registry) model {
	ti := textinput.New()
	ti.Placeholder = "Search all sources..."
	ti.CharLimit = 256
	ti.Width = 50

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Knowdock"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)

	return model{
		cfg:         cfg,
		store:       store,
		registry:    registry,
		searchInput: ti,
		list:        l,
		sources: map[string]bool{
			"arxiv":       true,
			"wikipedia":   true,
			"openlibrary": true,
			"crossref":    true,
			"doaj":        true,
		},
	}
}

type initMsg struct {
	results []extensions.Result
	err     error
}

type searchMsg struct {
	results []extensions.Result
	err     error
}

type statusMsg struct {
	text string
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadBookmarks,
	)
}

// loadBookmarks seeds the list with saved bookmarks so the app opens on
// something useful before the first search.
func (m model) loadBookmarks() tea.Msg {
	bookmarks, err := m.store.Bookmarks("")
	if err != nil {
		return initMsg{err: err}
	}

	results := make([]extensions.Result, 0, len(bookmarks))
	for _, b := range bookmarks {
		results = append(results, extensions.Result{
			Extension: b.Source,
			Resource: db.Resource{
				ID:          b.URL,
				Title:       b.Title,
				URL:         b.URL,
				Type:        b.Type,
				Description: b.Description,
			},
		})
	}
	return initMsg{results: results}
}

func (m model) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return searchMsg{}
		}
		results := m.registry.SearchAll(context.Background(), query, 50)
		return searchMsg{results: results}
	}
}

func (m model) bookmarkSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(resultItem)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		res := item.result.Resource
		err := m.store.AddBookmark(&db.Bookmark{
			Title:       res.Title,
			URL:         res.URL,
			Source:      item.result.Extension,
			Type:        res.Type,
			CoverURL:    res.CoverURL,
			Description: res.Description,
		})
		if errors.Is(err, db.ErrDuplicate) {
			return statusMsg{text: "already bookmarked"}
		}
		if err != nil {
			return statusMsg{text: "bookmark failed: " + err.Error()}
		}
		return statusMsg{text: "bookmarked " + res.Title}
	}
}

func (m model) addSelectedToLibrary() tea.Cmd {
	item, ok := m.list.SelectedItem().(resultItem)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		res := item.result.Resource
		if err := m.store.AddToLibrary(res.ID, res.Title, res.Author, item.result.Extension); err != nil {
			return statusMsg{text: "library add failed: " + err.Error()}
		}
		return statusMsg{text: "added to library: " + res.Title}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.searching {
				return m, tea.Quit
			}
		case "esc":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
			}
		case "/":
			if !m.searching {
				m.searching = true
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		case "enter":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
				m.status = "searching..."
				return m, m.doSearch(m.searchInput.Value())
			}
		case "j", "down":
			if !m.searching {
				m.list.CursorDown()
				return m, nil
			}
		case "k", "up":
			if !m.searching {
				m.list.CursorUp()
				return m, nil
			}
		case "g":
			if !m.searching {
				m.list.Select(0)
				return m, nil
			}
		case "G":
			if !m.searching {
				items := m.list.Items()
				if len(items) > 0 {
					m.list.Select(len(items) - 1)
				}
				return m, nil
			}
		case "o":
			if !m.searching {
				if item, ok := m.list.SelectedItem().(resultItem); ok {
					openBrowser(item.result.Resource.URL)
				}
			}
		case "b":
			if !m.searching {
				return m, m.bookmarkSelected()
			}
		case "a":
			if !m.searching {
				return m, m.addSelectedToLibrary()
			}
		case "1":
			if !m.searching {
				m.sources["arxiv"] = !m.sources["arxiv"]
				return m, m.filterResults
			}
		case "2":
			if !m.searching {
				m.sources["wikipedia"] = !m.sources["wikipedia"]
				return m, m.filterResults
			}
		case "3":
			if !m.searching {
				m.sources["openlibrary"] = !m.sources["openlibrary"]
				return m, m.filterResults
			}
		case "4":
			if !m.searching {
				m.sources["crossref"] = !m.sources["crossref"]
				return m, m.filterResults
			}
		case "5":
			if !m.searching {
				m.sources["doaj"] = !m.sources["doaj"]
				return m, m.filterResults
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-6)
		m.searchInput.Width = msg.Width - 20

	case initMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.results = msg.results
		m.list.SetItems(m.resultsToItems(msg.results))

	case searchMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.results = msg.results
		m.status = fmt.Sprintf("%d results", len(msg.results))
		m.list.SetItems(m.resultsToItems(msg.results))

	case statusMsg:
		m.status = msg.text
	}

	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) filterResults() tea.Msg {
	filtered := make([]extensions.Result, 0)
	for _, r := range m.results {
		if m.sources[r.Extension] {
			filtered = append(filtered, r)
		}
	}
	return searchMsg{results: filtered}
}

func (m model) resultsToItems(results []extensions.Result) []list.Item {
	items := make([]list.Item, 0, len(results))
	for _, r := range results {
		if m.sources[r.Extension] {
			items = append(items, resultItem{result: r})
		}
	}
	return items
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var b strings.Builder

	// Header with search and filters
	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	filterStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	activeFilter := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true)

	inactiveFilter := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	filters := []string{}
	for _, s := range []struct{ key, label string }{
		{"arxiv", "[A]"},
		{"wikipedia", "[W]"},
		{"openlibrary", "[O]"},
		{"crossref", "[C]"},
		{"doaj", "[D]"},
	} {
		if m.sources[s.key] {
			filters = append(filters, activeFilter.Render(s.label))
		} else {
			filters = append(filters, inactiveFilter.Render(s.label))
		}
	}

	searchBox := searchStyle.Render(m.searchInput.View())
	filterBar := filterStyle.Render(strings.Join(filters, " "))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, searchBox, "  ", filterBar))
	b.WriteString("\n\n")

	// List
	b.WriteString(m.list.View())

	// Status + help
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	help := "[j/k]nav [g/G]top/end [/]search [o]pen [b]ookmark [a]dd-to-library [1-5]filters [q]uit"
	if m.status != "" {
		help = m.status + "  " + help
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		cmd.Start()
	}
}

// Run starts the TUI application.
func Run(cfg *config.Config, store *db.Store, registry *extensions.Registry) error {
	p := tea.NewProgram(initialModel(cfg, store, registry), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
