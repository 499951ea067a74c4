// Package cmd implements the kvtree command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/kvtree/internal/formatter"
	"github.com/oakwood-commons/kvtree/internal/ui"
	"github.com/oakwood-commons/kvtree/pkg/loader"
	"github.com/oakwood-commons/kvtree/pkg/logger"
	"github.com/oakwood-commons/kvtree/pkg/settings"
	"github.com/oakwood-commons/kvtree/pkg/value"
	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

const (
	defaultSnapshotWidth  = 80
	defaultSnapshotHeight = 24
)

// rootOptions holds the flag values of one command tree.
type rootOptions struct {
	run           *settings.Run
	output        string
	toggles       []string
	expandDepth   int
	selectPath    string
	retain        bool
	decode        bool
	snapshot      bool
	debug         bool
	treeNoValues  bool
	treeMaxString int
	standalone    bool

	closeLog func()
}

var rootCmd = newRootCmd()

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{run: settings.NewCliParams()})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Browse structured data as an expandable key/value tree",
		Long: "kvtree renders JSON, YAML, TOML, NDJSON and JWT documents as a tree of\n" +
			"key/value rows. Containers start collapsed; each one is expanded on its\n" +
			"own, by --toggle on the command line or by clicking it with -i.",
		Example: "\n  kvtree config.yaml\n  kvtree data.json --toggle spec --toggle spec.containers\n" +
			"  curl -s https://api.example.com/items | kvtree -o tree --expand-depth 2\n  kvtree -i deployment.yaml\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.closeLog != nil {
				opts.closeLog()
				opts.closeLog = nil
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.BoolVarP(&opts.run.Interactive, "interactive", "i", false, "open the interactive viewer (click rows to toggle)")
	f.StringVarP(&opts.output, "output", "o", string(settings.OutputAuto), "output format: auto|ansi|text|html|tree")
	f.StringVar(&opts.run.Theme, "theme", "", "theme name (default from config; see 'kvtree themes')")
	f.StringArrayVar(&opts.toggles, "toggle", nil, "toggle the row with this id before rendering (repeatable, e.g. spec.containers.0)")
	f.IntVar(&opts.expandDepth, "expand-depth", 0, "expand every container above this depth")
	f.StringVar(&opts.selectPath, "select", "", "render the value at this dotted path as the root")
	f.BoolVar(&opts.retain, "retain", false, "keep nested expansion when a parent collapses")
	f.BoolVar(&opts.decode, "decode", false, "decode JSON and YAML embedded in string values")
	f.BoolVar(&opts.run.NoColor, "no-color", false, "disable color output")
	f.IntVar(&opts.run.Width, "width", 0, "output width in columns (pads ansi output; sizes --snapshot and -i)")
	f.IntVar(&opts.run.Height, "height", 0, "output height in rows (sizes --snapshot and -i)")
	f.BoolVar(&opts.snapshot, "snapshot", false, "render one frame of the interactive viewer and exit")
	f.BoolVar(&opts.treeNoValues, "tree-no-values", false, "show keys only in tree output")
	f.IntVar(&opts.treeMaxString, "tree-max-string", 0, "truncate values in tree output (0 = no limit)")
	f.BoolVar(&opts.standalone, "standalone", false, "wrap html output in a complete document")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.run.ConfigFile, "config-file", "", "path to a YAML config file (themes, styles, defaults)")
	pf.BoolVar(&opts.debug, "debug", false, "log debug details")
	pf.StringVar(&opts.run.LogFile, "log-file", "", "append logs to this file instead of stderr")

	cmd.AddCommand(newVersionCmd(), newConfigCmd(opts), newThemesCmd(opts), newValidateCmd(opts))
	return cmd
}

func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

// setupLogging attaches a logger to the command context. Logs go to
// --log-file when set; the interactive view owns the terminal, so it
// discards them otherwise.
func setupLogging(cmd *cobra.Command, opts *rootOptions) error {
	if opts.debug {
		opts.run.MinLogLevel = -1
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var lgr *logr.Logger
	switch {
	case opts.run.LogFile != "":
		f, err := os.OpenFile(opts.run.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.WithHint(errors.Wrap(err, "open log file"), "check that the --log-file directory exists and is writable")
		}
		l, zl := logger.New(logger.Options{Level: opts.run.MinLogLevel, Output: f})
		lgr = &l
		opts.closeLog = func() {
			_ = zl.Sync()
			_ = f.Close()
		}
	case opts.run.Interactive:
		l, _ := logger.New(logger.Options{Level: opts.run.MinLogLevel, Output: io.Discard})
		lgr = &l
	default:
		lgr = logger.Setup(logger.Options{Level: opts.run.MinLogLevel})
	}
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
	cmd.SetContext(logger.WithLogger(ctx, lgr))
	return nil
}

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions) error {
	format, err := settings.ParseOutputFormat(opts.output)
	if err != nil {
		return err
	}
	opts.run.Output = format
	if os.Getenv("NO_COLOR") != "" {
		opts.run.NoColor = true
	}
	ctx := settings.IntoContext(cmd.Context(), opts.run)
	lgr := logger.FromContext(ctx)

	cfg, err := loadMergedConfig(resolveConfigPath(opts.run.ConfigFile))
	if err != nil {
		return errors.WithHint(errors.Wrap(err, "load config"),
			"check --config-file or $XDG_CONFIG_HOME/kvtree/config.yaml; 'kvtree config --defaults' prints a valid file")
	}
	applyFlagOverrides(cmd.Flags(), &cfg, opts)
	theme, err := selectTheme(cfg)
	if err != nil {
		return err
	}

	root, src, err := loadInput(cmd, args)
	if errors.Is(err, errNoInput) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	opts.run.Input = src
	lgr.V(1).Info("loaded input", logger.InputKey, src.Name(), "kind", root.Kind().String())

	if boolOr(cfg.UI.Behavior.Decode, false) {
		root = loader.RecursiveDecode(root)
	}
	if opts.selectPath != "" {
		if root, err = selectValue(root, opts.selectPath); err != nil {
			return err
		}
	}

	tree, err := buildTree(ctx, root, cfg, theme, opts.toggles)
	if err != nil {
		return err
	}

	switch {
	case opts.snapshot:
		return writeSnapshot(ctx, cmd.OutOrStdout(), tree, theme)
	case opts.run.Interactive:
		return runInteractive(ctx, tree, theme)
	}
	return writeOutput(ctx, cmd.OutOrStdout(), tree.Render(), cfg)
}

func selectTheme(cfg ui.Config) (ui.Theme, error) {
	if err := ui.InitializeThemes(cfg); err != nil {
		return ui.Theme{}, err
	}
	name := strings.TrimSpace(cfg.UI.Theme.Default)
	if name == "" {
		name = settings.DefaultTheme
	}
	t, err := ui.GetTheme(name)
	if err != nil {
		return ui.Theme{}, errors.WithHintf(err, "run '%s themes' to list the configured themes", settings.CliBinaryName)
	}
	return t, nil
}

// loadInput reads the file argument, or stdin when it is "-" or piped.
func loadInput(cmd *cobra.Command, args []string) (value.Value, settings.InputSource, error) {
	if len(args) == 1 && args[0] != "-" {
		src := settings.InputSource{Path: args[0]}
		v, err := loader.LoadFile(args[0])
		if errors.Is(err, fs.ErrNotExist) {
			return value.Value{}, src, errors.WithHint(err, "check the path, or pipe the document on stdin")
		}
		return v, src, err
	}
	if len(args) == 1 || stdinIsPiped() {
		src := settings.InputSource{FromStdin: true}
		v, err := loader.LoadReader(cmd.InOrStdin())
		if err != nil {
			return value.Value{}, src, errors.Wrap(err, "read stdin")
		}
		return v, src, nil
	}
	return value.Value{}, settings.InputSource{}, errNoInput
}

func selectValue(root value.Value, path string) (value.Value, error) {
	v, err := value.Lookup(root, viewer.SplitID(viewer.NodeID(path)))
	if err != nil {
		return value.Value{}, errors.WithHint(errors.Wrapf(err, "select %q", path),
			`paths are dot-separated keys and array indices, e.g. spec.containers.0; write a literal dot as \.`)
	}
	return v, nil
}

func buildTree(ctx context.Context, root value.Value, cfg ui.Config, theme ui.Theme, toggles []string) (*viewer.Viewer, error) {
	lgr := logger.FromContext(ctx)
	opts := []viewer.Option{viewer.WithStyles(cfg.UI.Styles.Styles(theme.Palette))}
	if boolOr(cfg.UI.Behavior.RetainChildren, false) {
		opts = append(opts, viewer.WithRetainedChildren())
	}
	tree := viewer.New(root, opts...)
	if depth := intOr(cfg.UI.Behavior.ExpandDepth, 0); depth > 0 {
		tree.ExpandToDepth(depth)
	}
	for _, id := range toggles {
		if !tree.Toggle(viewer.NodeID(id)) {
			return nil, errors.WithHint(errors.Newf("toggle %q: no expandable row with that id", id),
				"a row can only be toggled when its parent is expanded; toggle parents first")
		}
		lgr.V(1).Info("toggled node", logger.NodeKey, id, "expanded", tree.Expanded(viewer.NodeID(id)))
	}
	return tree, nil
}

func runFromContext(ctx context.Context) *settings.Run {
	if run, ok := settings.FromContext(ctx); ok {
		return run
	}
	return settings.NewCliParams()
}

func writeOutput(ctx context.Context, w io.Writer, block viewer.Block, cfg ui.Config) error {
	run := runFromContext(ctx)
	format := run.Output
	if format == settings.OutputAuto {
		format = settings.OutputText
		if stdoutIsTerminal() {
			format = settings.OutputANSI
		}
	}
	if format == settings.OutputANSI && run.NoColor {
		format = settings.OutputText
	}
	logger.FromContext(ctx).V(1).Info("rendering", logger.FormatKey, string(format), "rows", len(block.Lines()))

	var out string
	switch format {
	case settings.OutputANSI:
		out = formatter.Terminal(block, formatter.TerminalOptions{Width: run.Width})
	case settings.OutputHTML:
		s, err := formatter.HTML(block, formatter.HTMLOptions{
			Standalone: boolOr(cfg.UI.Formatting.HTML.Standalone, false),
			Title:      cfg.UI.Formatting.HTML.Title,
		})
		if err != nil {
			return err
		}
		out = s
	case settings.OutputTree:
		out = formatter.FormatAsTree(block, formatter.TreeOptions{
			NoValues:     boolOr(cfg.UI.Formatting.Tree.NoValues, false),
			MaxStringLen: intOr(cfg.UI.Formatting.Tree.MaxStringLength, 0),
		})
	default:
		out = formatter.Terminal(block, formatter.TerminalOptions{NoColor: true})
	}
	return writeString(w, out)
}

func writeString(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

func uiOptions(ctx context.Context, theme ui.Theme) ui.Options {
	run := runFromContext(ctx)
	return ui.Options{
		Theme:   theme,
		NoColor: run.NoColor,
		Width:   run.Width,
		Height:  run.Height,
		Logger:  *logger.FromContext(ctx),
	}
}

func writeSnapshot(ctx context.Context, w io.Writer, tree *viewer.Viewer, theme ui.Theme) error {
	opts := uiOptions(ctx, theme)
	if opts.Width <= 0 || opts.Height <= 0 {
		dw, dh := detectTerminalSize()
		if opts.Width <= 0 {
			opts.Width = dw
		}
		if opts.Height <= 0 {
			opts.Height = dh
		}
	}
	if opts.Width <= 0 {
		opts.Width = defaultSnapshotWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultSnapshotHeight
	}
	frame, err := ui.RenderSnapshot(tree, ui.SnapshotConfig{Options: opts})
	if err != nil {
		return err
	}
	return writeString(w, frame)
}

func runInteractive(ctx context.Context, tree *viewer.Viewer, theme ui.Theme) error {
	progOpts, cleanup := getProgramOptions()
	defer cleanup()
	if err := ui.Run(ctx, tree, uiOptions(ctx, theme), progOpts...); err != nil {
		return errors.Wrap(err, "interactive viewer")
	}
	return nil
}
