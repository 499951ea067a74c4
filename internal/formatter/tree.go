package formatter

import (
	"github.com/mattn/go-runewidth"
	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoValues hides the value slot (structure only).
	NoValues bool
	// MaxStringLen truncates value slots wider than this many cells.
	// 0 or negative means no truncation.
	MaxStringLen int
}

// FormatAsTree renders the visible rows of b as an ASCII tree. Expanded
// rows become branches; every other row is a "key: slot" leaf.
func FormatAsTree(b viewer.Block, opts TreeOptions) string {
	tree := treeprint.New()
	buildTree(tree, b, opts)
	return tree.String()
}

func buildTree(branch treeprint.Tree, b viewer.Block, opts TreeOptions) {
	for _, r := range b.Rows {
		key := DisplayKey(r.Key)
		if r.Expanded {
			child := branch.AddBranch(key)
			if r.Children != nil {
				buildTree(child, *r.Children, opts)
			}
			continue
		}
		if opts.NoValues {
			branch.AddNode(key)
			continue
		}
		branch.AddNode(formatKeyValue(key, truncate(r.Text, opts.MaxStringLen)))
	}
}

func formatKeyValue(key, slot string) string {
	if slot == "" {
		return key + keySep
	}
	return key + keySep + " " + slot
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return runewidth.Truncate(s, maxLen, "...")
}
