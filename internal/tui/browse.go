// Package tui implements the interactive vault browser. It shows the
// three vault sections (locations, characters, story) as a filterable
// note list with a live markdown preview.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lorekeeper/internal/tui/components"
	"lorekeeper/internal/tui/components/notebrowser"
	"lorekeeper/internal/tui/helpers"
	"lorekeeper/internal/tui/styles"
	"lorekeeper/internal/vault"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Section identifies one browsable part of the vault.
type Section int

const (
	SectionLocations Section = iota
	SectionCharacters
	SectionStory
)

func (s Section) String() string {
	switch s {
	case SectionLocations:
		return "Locations"
	case SectionCharacters:
		return "Characters"
	case SectionStory:
		return "Story"
	default:
		return "Unknown"
	}
}

var sections = []Section{SectionLocations, SectionCharacters, SectionStory}

// sectionNotesMsg delivers the freshly loaded notes for a section.
type sectionNotesMsg struct {
	section Section
	notes   []vault.NoteItem
	err     error
}

// BrowseModel is the root bubbletea model for `lorekeeper browse`.
type BrowseModel struct {
	ctx     helpers.UIContext
	browser *notebrowser.NoteBrowser
	layout  components.LayoutModel

	locations  *vault.LocationCatalog
	characters *vault.CharacterDirectory
	sessions   *vault.SessionLog

	section Section
	loadErr error
}

func NewBrowseModel(ctx helpers.UIContext) *BrowseModel {
	browser := notebrowser.NewNoteBrowser(
		"Campaign Vault",
		"tab: switch section · enter: open · /: filter",
		nil,
		ctx,
	)

	layout := components.NewLayout(components.LayoutConfig{
		Title:    "Campaign Vault",
		HelpText: "tab: switch section · q: quit",
	})

	return &BrowseModel{
		ctx:        ctx,
		browser:    &browser,
		layout:     layout,
		locations:  vault.NewLocationCatalog(ctx.Config.LocationsRoot()),
		characters: vault.NewCharacterDirectory(ctx.Config.CharactersRoot()),
		sessions:   vault.NewSessionLog(ctx.Config.SessionsRoot()),
		section:    SectionLocations,
	}
}

func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.browser.Init(), m.loadSection(m.section))
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout, _ = m.layout.Update(msg)
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return m, m.switchSection((int(m.section) + 1) % len(sections))
		case "shift+tab":
			return m, m.switchSection((int(m.section) + len(sections) - 1) % len(sections))
		case "1", "2", "3":
			return m, m.switchSection(int(msg.String()[0] - '1'))
		}

	case sectionNotesMsg:
		if msg.section != m.section {
			// Stale load from a section the user already left.
			return m, nil
		}
		m.loadErr = msg.err
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(notebrowser.NotesReadyMsg{Notes: msg.notes})
		return m, cmd

	case notebrowser.NoteSelectedMsg:
		// Enter loads the full note into the preview pane.
		return m, nil
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

func (m *BrowseModel) View() string {
	var tabs []string
	for _, s := range sections {
		label := fmt.Sprintf("%d %s", int(s)+1, s)
		if s == m.section {
			tabs = append(tabs, styles.SectionActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.SectionStyle.Render(label))
		}
	}
	tabLine := styles.HeaderContainerStyle.Render(strings.Join(tabs, " "))

	if m.loadErr != nil {
		errView := m.layout.SetError(m.loadErr).
			Render("The " + m.section.String() + " section could not be loaded.")
		return lipgloss.JoinVertical(lipgloss.Left, tabLine, errView)
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabLine, m.browser.View())
}

func (m *BrowseModel) switchSection(idx int) tea.Cmd {
	if idx < 0 || idx >= len(sections) {
		return nil
	}
	m.section = sections[idx]
	m.browser.SetTitle("Campaign Vault · " + m.section.String())
	return m.loadSection(m.section)
}

func (m *BrowseModel) loadSection(section Section) tea.Cmd {
	return func() tea.Msg {
		defer m.ctx.Logger.LogPerformance("load "+section.String(), time.Now())

		var (
			notes []vault.NoteItem
			err   error
		)
		switch section {
		case SectionLocations:
			notes, err = m.loadLocations()
		case SectionCharacters:
			notes, err = m.loadCharacters()
		case SectionStory:
			notes, err = m.loadStory()
		}
		return sectionNotesMsg{section: section, notes: notes, err: err}
	}
}

func (m *BrowseModel) loadLocations() ([]vault.NoteItem, error) {
	names, err := m.locations.List()
	if err != nil {
		return nil, err
	}

	notes := make([]vault.NoteItem, 0, len(names))
	for _, name := range names {
		path := filepath.Join(m.locations.Dir(), name+vault.MarkdownExt)
		notes = append(notes, vault.NoteItem{
			Name: name,
			Path: path,
			Desc: vault.Summarize(path),
		})
	}
	return notes, nil
}

func (m *BrowseModel) loadCharacters() ([]vault.NoteItem, error) {
	grouped, err := m.characters.List()
	if err != nil {
		return nil, err
	}

	orgs, err := m.characters.Organizations()
	if err != nil {
		return nil, err
	}

	// Organizations are sorted and names within each group are sorted,
	// so the list order is deterministic without a second sort.
	var notes []vault.NoteItem
	for _, org := range orgs {
		for _, name := range grouped[org] {
			segments := append(strings.Split(org, "/"), name+vault.MarkdownExt)
			path := filepath.Join(append([]string{m.characters.Root()}, segments...)...)
			notes = append(notes, vault.NoteItem{
				Name: name,
				Org:  org,
				Path: path,
				Desc: vault.Summarize(path),
			})
		}
	}
	return notes, nil
}

func (m *BrowseModel) loadStory() ([]vault.NoteItem, error) {
	path := filepath.Join(m.sessions.Dir(), vault.StoryFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return []vault.NoteItem{
		{
			Name: "Story so far",
			Path: path,
			Desc: vault.Summarize(path),
		},
	}, nil
}
