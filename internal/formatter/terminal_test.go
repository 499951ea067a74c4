package formatter

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/kvtree/pkg/value"
	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

func sampleViewer() *viewer.Viewer {
	return viewer.New(value.ObjectValue(
		value.F("name", value.StringValue("kvtree")),
		value.F("tags", value.ArrayValue(value.StringValue("a"), value.StringValue("b"))),
		value.F("ok", value.BoolValue(true)),
	), viewer.WithStyles(viewer.Styles{KeyColor: "#ff0000"}))
}

func TestRenderTerminalLinesCarryRows(t *testing.T) {
	v := sampleViewer()
	require.True(t, v.TogglePath("tags"))

	lines := RenderTerminal(v.Render(), TerminalOptions{NoColor: true})
	require.Len(t, lines, 5)

	ids := make([]viewer.NodeID, len(lines))
	for i, l := range lines {
		ids[i] = l.Row.ID
	}
	assert.Equal(t, []viewer.NodeID{"name", "tags", "tags.0", "tags.1", "ok"}, ids)
	assert.Equal(t, "▾ tags:", lines[1].Text)
	assert.Equal(t, `│   0: "a"`, lines[2].Text)
}

func TestRenderTerminalColor(t *testing.T) {
	v := sampleViewer()
	lines := RenderTerminal(v.Render(), TerminalOptions{Width: 30})
	require.Len(t, lines, 3)

	for _, l := range lines {
		assert.Contains(t, l.Text, "\x1b[", "expected escape sequences")
		assert.Equal(t, 30, lipgloss.Width(l.Text), "line should be padded to width: %q", l.Text)
	}
	assert.Equal(t, PlainRow(lines[0].Row, 0), strings.TrimRight(stripForTest(lines[0].Text), " "))
}

func TestRenderTerminalWidthNarrowerThanContent(t *testing.T) {
	v := sampleViewer()
	lines := RenderTerminal(v.Render(), TerminalOptions{Width: 3})
	assert.Equal(t, lipgloss.Width(PlainRow(lines[0].Row, 0)), lipgloss.Width(lines[0].Text))
}

func TestPlainRow(t *testing.T) {
	tests := []struct {
		name  string
		row   viewer.Row
		level int
		want  string
	}{
		{"leaf", viewer.Row{Key: "a", Text: "1"}, 0, "  a: 1"},
		{"collapsed", viewer.Row{Key: "b", Indicator: viewer.IndicatorCollapsed, Text: "{ 1 item }"}, 1, "│ ▸ b: { 1 item }"},
		{"expanded slot is empty", viewer.Row{Key: "c", Indicator: viewer.IndicatorExpanded}, 2, "│ │ ▾ c:"},
		{"empty key", viewer.Row{Key: "", Text: `""`}, 0, `  : ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainRow(tt.row, tt.level))
		})
	}
}

func TestControlCharactersInKeys(t *testing.T) {
	v := viewer.New(value.ObjectValue(
		value.F("line1\nline2", value.NumberValue(1)),
		value.F("obj", value.ObjectValue(value.F("x", value.NumberValue(2)))),
		value.F("\x1b[2Jesc", value.NumberValue(3)),
	))

	plain := RenderTerminal(v.Render(), TerminalOptions{NoColor: true})
	require.Len(t, plain, 3)
	assert.Equal(t, `  "line1\nline2": 1`, plain[0].Text)
	assert.Equal(t, "▸ obj: { 1 item }", plain[1].Text)
	assert.Equal(t, `  "\x1b[2Jesc": 3`, plain[2].Text)

	colored := Terminal(v.Render(), TerminalOptions{Width: 40})
	assert.Len(t, strings.Split(colored, "\n"), 3, "one line per row")
	assert.NotContains(t, colored, "\x1b[2J")

	tree := FormatAsTree(v.Render(), TreeOptions{})
	assert.Contains(t, tree, `"line1\nline2": 1`)
	assert.NotContains(t, tree, "\x1b")
}

func TestDisplayKey(t *testing.T) {
	assert.Equal(t, "plain key", DisplayKey("plain key"))
	assert.Equal(t, "ünïcode", DisplayKey("ünïcode"))
	assert.Equal(t, `"tab\there"`, DisplayKey("tab\there"))
	assert.Equal(t, `"bell\a"`, DisplayKey("bell\a"))
}

func TestFontWeights(t *testing.T) {
	assert.True(t, isBold("600"))
	assert.True(t, isBold("bold"))
	assert.False(t, isBold("400"))
	assert.False(t, isBold(""))
	assert.True(t, isFaint("300"))
	assert.True(t, isFaint("lighter"))
	assert.False(t, isFaint("normal"))
}

func stripForTest(s string) string {
	var sb strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
