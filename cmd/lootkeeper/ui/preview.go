// Package ui provides the terminal previewer for rendered payloads. The
// previewer deliberately holds no pagination state of its own: page changes
// follow the control ids embedded in the payload's navigation row, exactly
// as the chat platform would echo them back.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"lootkeeper/internal/engine"
	"lootkeeper/internal/pagination"
	"lootkeeper/internal/types"
)

// pageLoadedMsg carries a freshly rendered payload into the model.
type pageLoadedMsg struct {
	cursor  string
	payload types.Payload
	err     error
}

// PreviewModel is the bubbletea model for the payload previewer.
type PreviewModel struct {
	eng     *engine.Engine
	guildID string
	cursor  string

	payload  types.Payload
	loadErr  error
	viewport viewport.Model
	styles   Styles
	markdown *glamour.TermRenderer

	width  int
	height int
}

// NewPreviewModel creates a previewer starting at the first page of listID.
func NewPreviewModel(eng *engine.Engine, guildID, listID string) PreviewModel {
	vp := viewport.New(80, 20)
	md, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	return PreviewModel{
		eng:      eng,
		guildID:  guildID,
		cursor:   pagination.Encode(listID, 0),
		viewport: vp,
		styles:   DefaultStyles(),
		markdown: md,
		width:    80,
		height:   24,
	}
}

// Init loads the first page.
func (m PreviewModel) Init() tea.Cmd {
	return m.load(m.cursor)
}

func (m PreviewModel) load(cursor string) tea.Cmd {
	return func() tea.Msg {
		payload, err := m.eng.RenderPage(context.Background(), m.guildID, cursor)
		return pageLoadedMsg{cursor: cursor, payload: payload, err: err}
	}
}

// Update handles messages.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "right", "l":
			if next, ok := navCursor(m.payload, +1); ok {
				return m, m.load(next)
			}
		case "left", "h":
			if prev, ok := navCursor(m.payload, -1); ok {
				return m, m.load(prev)
			}
		case "k", "up":
			m.viewport.LineUp(1)
		case "j", "down":
			m.viewport.LineDown(1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4

	case pageLoadedMsg:
		m.cursor = msg.cursor
		m.payload = msg.payload
		m.loadErr = msg.err
		m.viewport.SetContent(m.renderBlocks())
		m.viewport.GotoTop()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m PreviewModel) View() string {
	accent := accentColor(m.payload.Accent)
	header := m.styles.Header.BorderForeground(accent).Render(m.payload.Header)

	var rows []string
	for _, row := range m.payload.Rows {
		var cells []string
		for _, c := range row.Controls {
			style := m.styles.Control
			if c.Disabled {
				style = m.styles.Dimmed
			}
			cells = append(cells, style.Render(c.Label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	}

	status := m.styles.Status.Render("cursor " + m.cursor + "  ·  ←/→ page · j/k scroll · q quit")
	if m.loadErr != nil {
		status = m.styles.Status.Render("warning: " + m.loadErr.Error())
	}

	parts := []string{header, m.viewport.View()}
	parts = append(parts, rows...)
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderBlocks renders the payload's text blocks, passing each body through
// the markdown renderer when one is available.
func (m PreviewModel) renderBlocks() string {
	var out []string
	for _, block := range m.payload.Blocks {
		body := block.Body
		if m.markdown != nil {
			if rendered, err := m.markdown.Render(body); err == nil {
				body = strings.TrimRight(rendered, "\n")
			}
		}
		out = append(out, m.styles.Block.Render(body))
	}
	return strings.Join(out, "\n")
}

// navCursor picks the cursor one step in dir from the payload's navigation
// row. The navigation row, when present, is the first control row; the
// current page's control is the disabled one.
func navCursor(payload types.Payload, dir int) (string, bool) {
	if len(payload.Rows) < 2 {
		// Only the back row: single-page list.
		return "", false
	}
	controls := payload.Rows[0].Controls

	current := -1
	for i, c := range controls {
		if c.Disabled {
			current = i
			break
		}
	}
	if current < 0 {
		return "", false
	}

	// Window mode uses arrow labels; numbered mode uses adjacency.
	want := "›"
	if dir < 0 {
		want = "‹"
	}
	for _, c := range controls {
		if c.Label == want && !c.Disabled {
			return c.ID, true
		}
	}
	next := current + dir
	if next < 0 || next >= len(controls) {
		return "", false
	}
	return controls[next].ID, true
}
