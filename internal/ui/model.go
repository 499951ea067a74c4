// Package ui implements the interactive terminal tree view.
package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/kvtree/internal/formatter"
	"github.com/oakwood-commons/kvtree/pkg/logger"
	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	wheelStep     = 3
)

// Options configures a Model.
type Options struct {
	Theme      Theme
	NoColor    bool
	Width      int
	Height     int
	HideFooter bool
	Logger     logr.Logger
}

// Model is the bubbletea model of the tree view. A left click on a row
// toggles it; the wheel and the scroll keys move the view.
type Model struct {
	tree    *viewer.Viewer
	theme   Theme
	keys    keyMap
	help    help.Model
	log     logr.Logger
	noColor bool
	footer  bool

	width  int
	height int
	offset int
	lines  []formatter.Line
}

// NewModel wraps tree. The tree's styles are used as given; the theme
// colors the footer.
func NewModel(tree *viewer.Viewer, opts Options) *Model {
	m := &Model{
		tree:    tree,
		theme:   opts.Theme,
		keys:    defaultKeyMap(),
		help:    help.New(),
		log:     opts.Logger,
		noColor: opts.NoColor,
		footer:  !opts.HideFooter,
		width:   opts.Width,
		height:  opts.Height,
	}
	if m.width <= 0 {
		m.width = defaultWidth
	}
	if m.height <= 0 {
		m.height = defaultHeight
	}
	if m.log.GetSink() == nil {
		m.log = *logger.GetNoopLogger()
	}
	m.applyHelpStyles()
	m.refresh()
	return m
}

func (m *Model) applyHelpStyles() {
	if m.noColor {
		plain := lipgloss.NewStyle()
		m.help.Styles.ShortKey = plain
		m.help.Styles.ShortDesc = plain
		m.help.Styles.ShortSeparator = plain
		return
	}
	bg := m.theme.FooterBG
	if m.theme.HelpKeyColor != nil {
		m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(m.theme.HelpKeyColor).Background(bg).Bold(true)
	}
	if m.theme.HelpDescColor != nil {
		m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(m.theme.HelpDescColor).Background(bg)
		m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(m.theme.HelpDescColor).Background(bg)
	}
}

// Tree returns the wrapped tree.
func (m *Model) Tree() *viewer.Viewer { return m.tree }

// Offset returns the index of the first visible line.
func (m *Model) Offset() int { return m.offset }

// Lines returns every rendered line, visible or not.
func (m *Model) Lines() []formatter.Line { return m.lines }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.LineUp):
			m.Scroll(-1)
		case key.Matches(msg, m.keys.LineDown):
			m.Scroll(1)
		case key.Matches(msg, m.keys.PageUp):
			m.Scroll(-m.bodyHeight())
		case key.Matches(msg, m.keys.PageDown):
			m.Scroll(m.bodyHeight())
		case key.Matches(msg, m.keys.Top):
			m.Scroll(-len(m.lines))
		case key.Matches(msg, m.keys.Bottom):
			m.Scroll(len(m.lines))
		}
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button == tea.MouseLeft {
			m.ToggleAt(mouse.Y)
		}
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			m.Scroll(-wheelStep)
		case tea.MouseWheelDown:
			m.Scroll(wheelStep)
		}
	}
	return m, nil
}

// ToggleAt toggles the expandable row drawn at screen line y.
func (m *Model) ToggleAt(y int) bool {
	if y < 0 || y >= m.bodyHeight() {
		return false
	}
	idx := m.offset + y
	if idx >= len(m.lines) {
		return false
	}
	row := m.lines[idx].Row
	if !row.Expandable {
		return false
	}
	if !m.tree.TogglePath(row.Path...) {
		m.log.V(1).Info("toggle ignored", logger.NodeKey, string(row.ID))
		return false
	}
	m.log.V(1).Info("toggled node", logger.NodeKey, string(row.ID), "expanded", m.tree.Expanded(row.ID))
	m.refresh()
	return true
}

// Scroll moves the view by delta lines, clamped to the content.
func (m *Model) Scroll(delta int) {
	m.offset += delta
	m.clampOffset()
}

func (m *Model) bodyHeight() int {
	h := m.height
	if m.footer {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) clampOffset() {
	if limit := len(m.lines) - m.bodyHeight(); m.offset > limit {
		m.offset = limit
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) refresh() {
	m.lines = formatter.RenderTerminal(m.tree.Render(), formatter.TerminalOptions{
		NoColor: m.noColor,
		Width:   m.width,
	})
	m.clampOffset()
}

// Render returns the current frame as text.
func (m *Model) Render() string {
	body := m.bodyHeight()
	out := make([]string, 0, body+1)
	end := m.offset + body
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for _, l := range m.lines[m.offset:end] {
		out = append(out, l.Text)
	}
	filler := m.fillerLine()
	for len(out) < body {
		out = append(out, filler)
	}
	if m.footer {
		out = append(out, m.renderFooter())
	}
	return strings.Join(out, "\n")
}

func (m *Model) fillerLine() string {
	if m.noColor {
		return ""
	}
	st := m.tree.Styles()
	bg := st.BlockStyle().Background
	return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Render(strings.Repeat(" ", m.width))
}

func (m *Model) renderFooter() string {
	pos := "empty"
	if n := len(m.lines); n > 0 {
		last := m.offset + m.bodyHeight()
		if last > n {
			last = n
		}
		pos = fmt.Sprintf("%d-%d/%d", m.offset+1, last, n)
	}
	left := " click: toggle  " + m.help.ShortHelpView(m.keys.ShortHelp())
	right := pos + " "
	gap := m.width - lipgloss.Width(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	if m.noColor {
		return line
	}
	style := lipgloss.NewStyle()
	if m.theme.FooterFG != nil {
		style = style.Foreground(m.theme.FooterFG)
	}
	if m.theme.FooterBG != nil {
		style = style.Background(m.theme.FooterBG)
	}
	return style.Render(line)
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}
