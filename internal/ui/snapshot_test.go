package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

func TestRenderSnapshotToggles(t *testing.T) {
	out, err := RenderSnapshot(sampleTree(), SnapshotConfig{
		Options: Options{NoColor: true, Width: 30, Height: 6},
		Toggles: []viewer.NodeID{"a", "c"},
	})
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "▾ a:", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "│   x: 1", strings.TrimRight(lines[1], " "))
	assert.Contains(t, lines[5], "1-5/6")
}

func TestRenderSnapshotClicks(t *testing.T) {
	tree := sampleTree()
	out, err := RenderSnapshot(tree, SnapshotConfig{
		Options: Options{NoColor: true, Width: 30, Height: 8, HideFooter: true},
		Clicks:  []int{2, 0},
	})
	require.NoError(t, err)
	assert.True(t, tree.Expanded("a"))
	assert.True(t, tree.Expanded("c"))
	assert.Contains(t, out, "0: 1")
}

func TestRenderSnapshotUnknownToggle(t *testing.T) {
	_, err := RenderSnapshot(sampleTree(), SnapshotConfig{Toggles: []viewer.NodeID{"b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
}
