// Package notebrowser provides a two-pane bubbletea component: a
// filterable list of vault notes on the left and a markdown preview on
// the right. Previews are debounced while scrolling, rendered with
// glamour, and cached in a byte-capped LRU.
package notebrowser

import (
	clist "container/list"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"lorekeeper/internal/logging"
	"lorekeeper/internal/tui/helpers"
	"lorekeeper/internal/tui/styles"
	"lorekeeper/internal/vault"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type KeyMap struct {
	Select       key.Binding
	Up           key.Binding
	Down         key.Binding
	Quit         key.Binding
	Filter       key.Binding
	Full         key.Binding
	ToggleFormat key.Binding
	FocusLeft    key.Binding
	FocusRight   key.Binding
}

type focusedPane int

const (
	focusList focusedPane = iota
	focusPreview
)

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "quit")),
		Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Full:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "load full")),
		ToggleFormat: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle format")),
		FocusLeft:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "focus list")),
		FocusRight:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "focus preview")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Filter, k.Full, k.ToggleFormat, k.FocusRight, k.FocusLeft, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Filter, k.Full, k.ToggleFormat, k.FocusRight, k.FocusLeft, k.Quit},
	}
}

// NoteBrowser is the two-pane note list + preview component.
type NoteBrowser struct {
	logger *logging.AppLogger

	title    string
	subtitle string
	notes    []vault.NoteItem
	noteList list.Model
	keys     KeyMap
	viewport viewport.Model
	help     help.Model

	windowWidth  int
	windowHeight int

	isLoading       bool
	loadingPath     string
	currentRenderID uint64
	renderCounter   *uint64
	contentCache    *lruCache

	debounceDuration  time.Duration
	pendingDebounceID uint64

	largeFileThreshold int // bytes before previews get truncated
	maxPreviewBytes    int
	useGlamour         bool
	glamourStyle       string

	focusPane focusedPane
}

type (
	// NotesReadyMsg replaces the browser's note list, e.g. when the user
	// switches sections.
	NotesReadyMsg struct {
		Notes []vault.NoteItem
	}

	// NoteSelectedMsg is emitted when the user picks a note with Enter.
	NoteSelectedMsg struct {
		Note vault.NoteItem
	}

	debouncedPreviewMsg struct {
		path string
		seq  uint64
	}

	noteRenderedMsg struct {
		content  string
		path     string
		renderID uint64
		cacheKey string
	}

	noteReadErrorMsg struct {
		err      error
		path     string
		renderID uint64
	}
)

type lruEntry struct {
	key     string
	content string
	size    int
}

// lruCache evicts least-recently-used rendered previews once the byte
// cap is exceeded.
type lruCache struct {
	capacityBytes int
	currentBytes  int
	ll            *clist.List
	items         map[string]*clist.Element
}

func newLRU(capacity int) *lruCache {
	return &lruCache{
		capacityBytes: capacity,
		ll:            clist.New(),
		items:         make(map[string]*clist.Element),
	}
}

func (c *lruCache) Get(key string) (string, bool) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry).content, true
	}
	return "", false
}

func (c *lruCache) Add(key string, content string) {
	size := len(content)
	if size > c.capacityBytes {
		return
	}
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*lruEntry)
		c.currentBytes += size - ent.size
		ent.content = content
		ent.size = size
		c.ll.MoveToFront(el)
	} else {
		el := c.ll.PushFront(&lruEntry{key: key, content: content, size: size})
		c.items[key] = el
		c.currentBytes += size
	}
	for c.currentBytes > c.capacityBytes && c.ll.Len() > 0 {
		tail := c.ll.Back()
		ent := tail.Value.(*lruEntry)
		delete(c.items, ent.key)
		c.ll.Remove(tail)
		c.currentBytes -= ent.size
	}
}

func (c *lruCache) Clear() {
	c.ll.Init()
	c.items = make(map[string]*clist.Element)
	c.currentBytes = 0
}

// detectGlamourStyle picks dark or light from the terminal background,
// honoring a concrete GLAMOUR_STYLE override. The timeout guards against
// terminals that never answer the background query.
func detectGlamourStyle(timeout time.Duration) string {
	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return "dark"
	}
}

func NewNoteBrowser(title, subtitle string, notes []vault.NoteItem, ctx helpers.UIContext) NoteBrowser {
	items := make([]list.Item, len(notes))
	for i, n := range notes {
		items[i] = n
	}

	noteList := list.New(items, list.NewDefaultDelegate(), ctx.Width, ctx.Height)
	noteList.Title = "Notes"
	noteList.SetShowStatusBar(false)
	noteList.SetFilteringEnabled(true)
	noteList.SetShowHelp(false)

	vp := viewport.New(ctx.Width, ctx.Height)
	vp.MouseWheelEnabled = true

	renderCounter := uint64(0)

	return NoteBrowser{
		logger:             ctx.Logger,
		title:              title,
		subtitle:           subtitle,
		notes:              notes,
		noteList:           noteList,
		viewport:           vp,
		keys:               DefaultKeyMap(),
		help:               help.New(),
		windowWidth:        ctx.Width,
		windowHeight:       ctx.Height,
		renderCounter:      &renderCounter,
		contentCache:       newLRU(1 << 20),
		debounceDuration:   200 * time.Millisecond,
		largeFileThreshold: 7 * 1024,
		maxPreviewBytes:    2 * 1024,
		useGlamour:         true,
		focusPane:          focusList,
	}
}

func (nb *NoteBrowser) Init() tea.Cmd {
	if nb.glamourStyle == "" {
		nb.glamourStyle = detectGlamourStyle(50 * time.Millisecond)
		nb.logger.Debug("Glamour style selected", "style", nb.glamourStyle)
	}

	if len(nb.noteList.Items()) > 0 {
		first := nb.noteList.Items()[0].(vault.NoteItem)
		return nb.scheduleDebouncedPreview(first.Path)
	}
	return nil
}

func (nb *NoteBrowser) SetTitle(title string) {
	nb.title = title
}

func (nb *NoteBrowser) Update(msg tea.Msg) (*NoteBrowser, tea.Cmd) {
	nb.logger.LogMessage(msg)

	var cmd tea.Cmd
	var cmds []tea.Cmd

	var oldSelectedPath string
	if item := nb.noteList.SelectedItem(); item != nil {
		oldSelectedPath = item.(vault.NoteItem).Path
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		nb.windowWidth = msg.Width
		nb.windowHeight = msg.Height
		nb.help.Width = msg.Width

		frameW, frameH := styles.PaneStyle.GetFrameSize()
		totalExtras := frameW * 2

		const mainLeftMargin = 1
		avail := max(msg.Width-totalExtras-mainLeftMargin, 0)

		listWidth := avail / 3
		vpWidth := avail - listWidth
		if listWidth < 20 {
			listWidth = 20
		}
		if vpWidth < 30 {
			vpWidth = 30
		}

		// Measure header and help with the same styles View uses so the
		// computed content height matches what actually renders.
		headerView := styles.TitleStyle.Render(nb.title)
		if nb.subtitle != "" {
			headerView = lipgloss.JoinVertical(lipgloss.Left, headerView, styles.SubtitleStyle.Render(nb.subtitle))
		}
		headerView = styles.HeaderContainerStyle.Render(headerView)
		helpView := styles.HelpContainerStyle.Render(styles.HelpStyle.Render(nb.help.View(nb.keys)))

		contentHeight := max(msg.Height-lipgloss.Height(headerView)-lipgloss.Height(helpView)-frameH, 5)

		nb.noteList.SetSize(listWidth, contentHeight)
		nb.viewport.Width = vpWidth
		nb.viewport.Height = contentHeight
		return nb, nil

	case tea.MouseMsg:
		var vpcmd tea.Cmd
		nb.viewport, vpcmd = nb.viewport.Update(msg)
		if vpcmd != nil {
			cmds = append(cmds, vpcmd)
		}
		return nb, tea.Batch(cmds...)

	case list.FilterMatchesMsg:
		nb.noteList, cmd = nb.noteList.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return nb, tea.Batch(cmds...)

	case noteRenderedMsg:
		// Cache regardless of staleness; a stale render is still a valid
		// cache entry for its note.
		key := msg.cacheKey
		if key == "" {
			key = nb.cacheKey(msg.path, false, nb.useGlamour)
		}
		nb.contentCache.Add(key, msg.content)

		currentSelectedPath := ""
		if item := nb.noteList.SelectedItem(); item != nil {
			currentSelectedPath = item.(vault.NoteItem).Path
		}
		if msg.path == currentSelectedPath && msg.renderID >= nb.currentRenderID {
			nb.currentRenderID = msg.renderID
			nb.viewport.SetContent(msg.content)
			nb.isLoading = false
			nb.loadingPath = ""
		}
		return nb, cmd

	case noteReadErrorMsg:
		currentSelectedPath := ""
		if item := nb.noteList.SelectedItem(); item != nil {
			currentSelectedPath = item.(vault.NoteItem).Path
		}
		if msg.path == currentSelectedPath && msg.renderID >= nb.currentRenderID {
			nb.currentRenderID = msg.renderID
			nb.logger.Error("Error reading note", "error", msg.err, "path", msg.path)
			nb.viewport.SetContent(fmt.Sprintf("Error reading note %s: %v", msg.path, msg.err))
			nb.isLoading = false
			nb.loadingPath = ""
		}
		return nb, nil

	case debouncedPreviewMsg:
		if msg.seq != nb.pendingDebounceID {
			return nb, nil
		}
		currentSelectedPath := ""
		if item := nb.noteList.SelectedItem(); item != nil {
			currentSelectedPath = item.(vault.NoteItem).Path
		}
		if currentSelectedPath != msg.path {
			return nb, nil
		}

		if cached, ok := nb.contentCache.Get(nb.cacheKey(msg.path, false, nb.useGlamour)); ok {
			nb.applyCached(cached)
			return nb, nil
		}
		if cached, ok := nb.contentCache.Get(nb.cacheKey(msg.path, true, nb.useGlamour)); ok {
			nb.applyCached(cached)
			return nb, nil
		}
		return nb, nb.renderNoteContent(msg.path, false, nb.useGlamour)

	case NotesReadyMsg:
		nb.notes = msg.Notes
		items := make([]list.Item, len(nb.notes))
		for i, n := range nb.notes {
			items[i] = n
		}
		nb.noteList.SetItems(items)
		nb.noteList.ResetSelected()
		nb.viewport.GotoTop()
		nb.contentCache.Clear()

		if len(nb.noteList.Items()) > 0 {
			first := nb.noteList.Items()[0].(vault.NoteItem)
			cmds = append(cmds, nb.scheduleDebouncedPreview(first.Path))
		} else {
			nb.viewport.SetContent("No notes in this section.")
			nb.isLoading = false
		}
		return nb, tea.Batch(cmds...)

	case tea.KeyMsg:
		// While filtering, ESC exits the filter rather than the browser.
		if msg.String() == "esc" && nb.noteList.FilterState() == list.Filtering {
			var lcmd tea.Cmd
			nb.noteList, lcmd = nb.noteList.Update(msg)
			if lcmd != nil {
				cmds = append(cmds, lcmd)
			}
			return nb, tea.Batch(cmds...)
		}

		if key.Matches(msg, nb.keys.FocusRight) {
			nb.focusPane = focusPreview
			return nb, nil
		}
		if key.Matches(msg, nb.keys.FocusLeft) {
			nb.focusPane = focusList
			return nb, nil
		}

		if nb.focusPane == focusPreview {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d", "home", "end", "k", "j":
				var vcmd tea.Cmd
				nb.viewport, vcmd = nb.viewport.Update(msg)
				if vcmd != nil {
					cmds = append(cmds, vcmd)
				}
				return nb, tea.Batch(cmds...)
			}
		}

		switch {
		case key.Matches(msg, nb.keys.Select):
			if selected, ok := nb.noteList.SelectedItem().(vault.NoteItem); ok {
				return nb, func() tea.Msg {
					return NoteSelectedMsg{Note: selected}
				}
			}

		case key.Matches(msg, nb.keys.Quit):
			return nb, tea.Quit

		case key.Matches(msg, nb.keys.Full):
			if item := nb.noteList.SelectedItem(); item != nil {
				p := item.(vault.NoteItem).Path
				nb.isLoading = true
				nb.loadingPath = p
				nb.viewport.SetContent("Loading full preview for " + p + "...")
				return nb, nb.renderNoteContent(p, true, nb.useGlamour)
			}

		case key.Matches(msg, nb.keys.ToggleFormat):
			nb.useGlamour = !nb.useGlamour
			if item := nb.noteList.SelectedItem(); item != nil {
				p := item.(vault.NoteItem).Path
				if cached, ok := nb.contentCache.Get(nb.cacheKey(p, false, nb.useGlamour)); ok {
					nb.applyCached(cached)
					return nb, nil
				}
				if cached, ok := nb.contentCache.Get(nb.cacheKey(p, true, nb.useGlamour)); ok {
					nb.applyCached(cached)
					return nb, nil
				}
				nb.isLoading = true
				nb.loadingPath = p
				nb.viewport.SetContent("Rendering...")
				return nb, nb.renderNoteContent(p, false, nb.useGlamour)
			}

		default:
			prev := nb.noteList.FilterState()
			nb.noteList, cmd = nb.noteList.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			if prev == list.Filtering && nb.noteList.FilterState() != list.Filtering {
				if sel := nb.noteList.SelectedItem(); sel != nil {
					cmds = append(cmds, nb.scheduleDebouncedPreview(sel.(vault.NoteItem).Path))
				}
			}

			var newSelectedPath string
			if item := nb.noteList.SelectedItem(); item != nil {
				newSelectedPath = item.(vault.NoteItem).Path
			}
			if newSelectedPath != "" && newSelectedPath != oldSelectedPath &&
				nb.noteList.FilterState() != list.Filtering {
				if cached, ok := nb.contentCache.Get(nb.cacheKey(newSelectedPath, false, nb.useGlamour)); ok {
					nb.applyCached(cached)
				} else if cached, ok := nb.contentCache.Get(nb.cacheKey(newSelectedPath, true, nb.useGlamour)); ok {
					nb.applyCached(cached)
				} else {
					cmds = append(cmds, nb.scheduleDebouncedPreview(newSelectedPath))
				}
			}
			return nb, tea.Batch(cmds...)
		}
	}

	return nb, tea.Batch(cmds...)
}

func (nb *NoteBrowser) View() string {
	title := styles.TitleStyle.Render(nb.title)
	var header string
	if nb.subtitle != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, title, styles.SubtitleStyle.Render(nb.subtitle))
	} else {
		header = title
	}
	header = styles.HeaderContainerStyle.Render(header)

	listStyle := styles.PaneStyle
	vpStyle := styles.PaneStyle
	switch nb.focusPane {
	case focusList:
		listStyle = styles.PaneFocusedStyle
	case focusPreview:
		vpStyle = styles.PaneFocusedStyle
	}

	listStyle = listStyle.Width(nb.noteList.Width()).Height(nb.noteList.Height())
	vpStyle = vpStyle.Width(nb.viewport.Width).Height(nb.viewport.Height)

	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		listStyle.Render(nb.noteList.View()),
		vpStyle.Render(nb.viewport.View()),
	)
	panes = styles.MainContainerStyle.Render(panes)

	helpView := styles.HelpContainerStyle.Render(styles.HelpStyle.Render(nb.help.View(nb.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, helpView)
}

func (nb *NoteBrowser) applyCached(content string) {
	nb.viewport.SetContent(content)
	nb.isLoading = false
	nb.loadingPath = ""
}

func (nb *NoteBrowser) cacheKey(path string, full bool, glamourOn bool) string {
	mode := "trunc"
	if full {
		mode = "full"
	}
	fmtMode := "plain"
	if glamourOn {
		fmtMode = "glamour"
	}
	return path + "|" + mode + "|" + fmtMode
}

func (nb *NoteBrowser) scheduleDebouncedPreview(p string) tea.Cmd {
	nb.isLoading = true
	nb.loadingPath = p
	nb.viewport.SetContent("Loading " + p + "...")
	seq := atomic.AddUint64(&nb.pendingDebounceID, 1)
	return tea.Tick(nb.debounceDuration, func(time.Time) tea.Msg {
		return debouncedPreviewMsg{path: p, seq: seq}
	})
}

func (nb *NoteBrowser) renderNoteContent(path string, full bool, glamourOn bool) tea.Cmd {
	renderID := atomic.AddUint64(nb.renderCounter, 1)

	return func() tea.Msg {
		fi, statErr := os.Stat(path)
		if statErr != nil {
			return noteReadErrorMsg{err: statErr, path: path, renderID: renderID}
		}

		toRead := fi.Size()
		truncated := false
		if !full && fi.Size() > int64(nb.largeFileThreshold) {
			if int64(nb.maxPreviewBytes) < toRead {
				toRead = int64(nb.maxPreviewBytes)
			}
			truncated = true
		}

		f, err := os.Open(path)
		if err != nil {
			return noteReadErrorMsg{err: err, path: path, renderID: renderID}
		}
		defer f.Close()

		buf := make([]byte, toRead)
		n, rerr := io.ReadFull(f, buf)
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			return noteReadErrorMsg{err: rerr, path: path, renderID: renderID}
		}
		content := buf[:n]

		vpWidth := nb.viewport.Width - 2
		if vpWidth <= 0 {
			vpWidth = 80
		}

		header := ""
		if truncated {
			header = fmt.Sprintf("[Preview truncated to %d KB of %d KB. Press 'f' to load full.]\n\n", n/1024, fi.Size()/1024)
		}

		var rendered string
		if glamourOn {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(nb.glamourStyle),
				glamour.WithWordWrap(vpWidth),
			)
			if err != nil {
				return noteReadErrorMsg{err: err, path: path, renderID: renderID}
			}
			rc, err := renderer.Render(string(content))
			if err != nil {
				return noteReadErrorMsg{err: err, path: path, renderID: renderID}
			}
			rendered = header + rc
		} else {
			rendered = header + string(content)
		}

		return noteRenderedMsg{content: rendered, path: path, renderID: renderID, cacheKey: nb.cacheKey(path, !truncated, glamourOn)}
	}
}
