package ui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

// SnapshotConfig configures a single rendered frame.
type SnapshotConfig struct {
	Options
	// Toggles are applied in order before rendering.
	Toggles []viewer.NodeID
	// Clicks are screen lines clicked in order after Toggles.
	Clicks []int
	// Scroll moves the view after the clicks.
	Scroll int
}

// RenderSnapshot renders the frame the interactive view would show after
// the scripted toggles and clicks. An unknown toggle id is an error.
func RenderSnapshot(tree *viewer.Viewer, cfg SnapshotConfig) (string, error) {
	m := NewModel(tree, cfg.Options)
	for _, id := range cfg.Toggles {
		if !tree.Toggle(id) {
			return "", fmt.Errorf("toggle %q: no expandable row with that id", id)
		}
	}
	m.refresh()
	for _, y := range cfg.Clicks {
		m.Update(tea.MouseClickMsg{X: 0, Y: y, Button: tea.MouseLeft})
	}
	if cfg.Scroll != 0 {
		m.Scroll(cfg.Scroll)
	}
	return m.Render(), nil
}
