package components

import (
	"strings"

	"lorekeeper/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

// LayoutConfig describes the static parts of a simple titled screen.
type LayoutConfig struct {
	Title    string
	Subtitle string
	HelpText string
	MarginX  int
	MarginY  int
	MaxWidth int
}

// LayoutModel renders title, content, error and help sections with
// consistent margins and word wrapping.
type LayoutModel struct {
	config LayoutConfig
	width  int
	height int
	err    error
}

func NewLayout(config LayoutConfig) LayoutModel {
	if config.MarginX == 0 {
		config.MarginX = 2
	}
	if config.MarginY == 0 {
		config.MarginY = 1
	}
	if config.MaxWidth == 0 {
		config.MaxWidth = 100
	}
	return LayoutModel{config: config}
}

func (m LayoutModel) Update(msg tea.Msg) (LayoutModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m LayoutModel) SetError(err error) LayoutModel {
	if err != nil {
		m.err = err
	}
	return m
}

func (m LayoutModel) ClearError() LayoutModel {
	m.err = nil
	return m
}

func (m LayoutModel) GetError() error {
	return m.err
}

// Render the complete layout with content
func (m LayoutModel) Render(content string) string {
	sections := []string{}
	contentWidth := m.ContentWidth()

	if m.config.Title != "" {
		sections = append(sections, styles.TitleStyle.Render(m.wrapText(m.config.Title, contentWidth)))
	}
	if m.config.Subtitle != "" {
		sections = append(sections, styles.SubtitleStyle.Render(m.wrapText(m.config.Subtitle, contentWidth)))
	}
	if content != "" {
		sections = append(sections, styles.NormalTextStyle.Render(m.wrapText(content, contentWidth)))
	}
	if m.err != nil {
		sections = append(sections, styles.ErrorStyle.Render(m.wrapText("Error: "+m.err.Error(), contentWidth)))
	}
	if m.config.HelpText != "" {
		sections = append(sections, styles.HelpStyle.Render(m.wrapText(m.config.HelpText, contentWidth)))
	}

	return m.addMargins(strings.Join(sections, "\n\n"))
}

// wrapText word-wraps while preserving existing line and paragraph
// breaks.
func (m LayoutModel) wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n\n")
	wrappedParagraphs := make([]string, 0, len(paragraphs))

	for _, paragraph := range paragraphs {
		lines := strings.Split(paragraph, "\n")
		wrappedLines := make([]string, 0, len(lines))
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				wrappedLines = append(wrappedLines, "")
				continue
			}
			wrappedLines = append(wrappedLines, wordwrap.String(line, width))
		}
		wrappedParagraphs = append(wrappedParagraphs, strings.Join(wrappedLines, "\n"))
	}

	return strings.Join(wrappedParagraphs, "\n\n")
}

func (m LayoutModel) addMargins(content string) string {
	lines := strings.Split(content, "\n")
	marginLeft := strings.Repeat(" ", m.config.MarginX)
	for i, line := range lines {
		lines[i] = marginLeft + line
	}

	marginTop := strings.Repeat("\n", m.config.MarginY)
	marginBottom := strings.Repeat("\n", m.config.MarginY)
	return marginTop + strings.Join(lines, "\n") + marginBottom
}

func (m LayoutModel) ContentWidth() int {
	available := m.width - (m.config.MarginX * 2)
	if available > m.config.MaxWidth {
		return m.config.MaxWidth
	}
	if available < 40 {
		return 40
	}
	return available
}

func (m LayoutModel) ContentHeight() int {
	return m.height - (m.config.MarginY * 2) - 6
}
