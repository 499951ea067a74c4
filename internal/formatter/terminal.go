package formatter

import (
	"image/color"
	"strconv"
	"strings"
	"unicode"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

// Disclosure glyphs. The spacer has the glyph's width so keys align.
const (
	GlyphCollapsed = "▸"
	GlyphExpanded  = "▾"
	GlyphSpacer    = " "

	indentGuide = "│ "
	keySep      = ":"
)

// TerminalOptions controls terminal rendering.
type TerminalOptions struct {
	// NoColor renders plain text without escape sequences or padding.
	NoColor bool
	// Width pads every line with the block background up to Width cells.
	// Zero disables padding.
	Width int
}

// Line is one rendered terminal line and the row it shows.
type Line struct {
	Text string
	Row  viewer.Row
}

// RenderTerminal renders the visible rows of b, one Line per row in
// display order. Nested blocks are indented relative to b.
func RenderTerminal(b viewer.Block, opts TerminalOptions) []Line {
	var out []Line
	renderTerminalBlock(&out, b, opts, 0)
	return out
}

// Terminal joins RenderTerminal output with newlines.
func Terminal(b viewer.Block, opts TerminalOptions) string {
	lines := RenderTerminal(b, opts)
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

func renderTerminalBlock(out *[]Line, b viewer.Block, opts TerminalOptions, level int) {
	for _, r := range b.Rows {
		*out = append(*out, Line{Text: terminalRow(r, b.Style, opts, level), Row: r})
		if r.Children != nil {
			renderTerminalBlock(out, *r.Children, opts, level+1)
		}
	}
}

// PlainRow renders a row without styling at nesting level.
func PlainRow(r viewer.Row, level int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(indentGuide, level))
	sb.WriteString(glyph(r.Indicator))
	sb.WriteByte(' ')
	sb.WriteString(DisplayKey(r.Key))
	sb.WriteString(keySep)
	if r.Text != "" {
		sb.WriteByte(' ')
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func terminalRow(r viewer.Row, bs viewer.BlockStyle, opts TerminalOptions, level int) string {
	if opts.NoColor {
		return PlainRow(r, level)
	}

	bg := lipgloss.Color(bs.Background)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(bs.Muted)).Background(bg)
	plain := lipgloss.NewStyle().Background(bg)

	var sb strings.Builder
	if level > 0 {
		sb.WriteString(muted.Render(strings.Repeat(indentGuide, level)))
	}
	sb.WriteString(muted.Render(glyph(r.Indicator)))
	sb.WriteString(plain.Render(" "))
	sb.WriteString(textStyle(r.KeyStyle, bg).Render(DisplayKey(r.Key)))
	sb.WriteString(muted.Render(keySep))
	if r.Text != "" {
		sb.WriteString(plain.Render(" "))
		sb.WriteString(textStyle(r.ValueStyle, bg).Render(r.Text))
	}

	if opts.Width > 0 {
		if pad := opts.Width - runewidth.StringWidth(PlainRow(r, level)); pad > 0 {
			sb.WriteString(plain.Render(strings.Repeat(" ", pad)))
		}
	}
	return sb.String()
}

// DisplayKey returns key as it is drawn on a terminal. Keys holding control
// characters are Go-quoted so each row stays on one line and no escape
// sequence reaches the terminal.
func DisplayKey(key string) string {
	if strings.IndexFunc(key, unicode.IsControl) < 0 {
		return key
	}
	return strconv.Quote(key)
}

func textStyle(ts viewer.TextStyle, bg color.Color) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(ts.Color)).Background(bg)
	if isBold(ts.Font.Weight) {
		s = s.Bold(true)
	}
	if isFaint(ts.Font.Weight) {
		s = s.Faint(true)
	}
	return s
}

func glyph(ind viewer.Indicator) string {
	switch ind {
	case viewer.IndicatorCollapsed:
		return GlyphCollapsed
	case viewer.IndicatorExpanded:
		return GlyphExpanded
	default:
		return GlyphSpacer
	}
}

// isBold maps CSS font weights onto the terminal's bold attribute.
func isBold(weight string) bool {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(weight))
	return err == nil && n >= 600
}

func isFaint(weight string) bool {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "lighter":
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(weight))
	return err == nil && n > 0 && n <= 300
}
