package ui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

// Run starts the interactive view and blocks until the user quits or ctx
// is cancelled. Width/height of 0 auto-detect the terminal size.
// Extra ProgramOptions (e.g., custom IO) are passed to tea.NewProgram.
func Run(ctx context.Context, tree *viewer.Viewer, opts Options, progOpts ...tea.ProgramOption) error {
	if opts.Width > 0 || opts.Height > 0 {
		runW, runH := opts.Width, opts.Height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = defaultWidth
		}
		if runH <= 0 {
			runH = defaultHeight
		}
		opts.Width, opts.Height = runW, runH
		progOpts = append(progOpts, tea.WithWindowSize(runW, runH))
	}
	m := NewModel(tree, opts)
	m.log.V(1).Info("starting interactive view", "width", m.width, "height", m.height)
	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)
	_, err := tea.NewProgram(m, progOpts...).Run()
	return err
}
