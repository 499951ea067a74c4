package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/oakwood-commons/kvtree/internal/ui"
	"github.com/oakwood-commons/kvtree/pkg/loader"
	"github.com/oakwood-commons/kvtree/pkg/logger"
	"github.com/oakwood-commons/kvtree/pkg/settings"
	"github.com/oakwood-commons/kvtree/pkg/value"
)

// schemaViolationExitCode is returned when a document fails validation.
const schemaViolationExitCode = 2

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print kvtree version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var defaults bool
	c := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration as YAML",
		Long: "Print the embedded defaults merged with the user config file\n" +
			"(--config-file, else $XDG_CONFIG_HOME/kvtree/config.yaml).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if defaults {
				_, err := cmd.OutOrStdout().Write(ui.DefaultConfigYAML())
				return err
			}
			path := resolveConfigPath(opts.run.ConfigFile)
			cfg, err := loadMergedConfig(path)
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			logger.FromContext(cmd.Context()).V(1).Info("merged config", "path", path, "themes", len(cfg.UI.Themes))
			out, err := renderConfigYAML(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	c.Flags().BoolVar(&defaults, "defaults", false, "print the embedded defaults verbatim")
	return c
}

func newThemesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the configured themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadMergedConfig(resolveConfigPath(opts.run.ConfigFile))
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			if err := ui.InitializeThemes(cfg); err != nil {
				return err
			}
			def := cfg.UI.Theme.Default
			if def == "" {
				def = settings.DefaultTheme
			}

			tbl := tablewriter.NewWriter(cmd.OutOrStdout())
			tbl.SetHeader([]string{"Name", "Display", "Default", "Background", "Description"})
			tbl.SetAutoWrapText(false)
			tbl.SetBorder(false)
			for _, name := range ui.ThemeNames() {
				t, err := ui.GetTheme(name)
				if err != nil {
					return err
				}
				mark := ""
				if name == def {
					mark = "*"
				}
				tbl.Append([]string{name, t.DisplayName(), mark, t.Palette.Background, t.Description})
			}
			tbl.Render()
			return nil
		},
	}
}

func newValidateCmd(_ *rootOptions) *cobra.Command {
	var schemaPath string
	c := &cobra.Command{
		Use:   "validate --schema FILE [file]",
		Short: "Validate a document against a JSON Schema",
		Long: "Validate the document (file argument or stdin) against a JSON Schema.\n" +
			"The schema may be written in any supported input format. Violations\n" +
			"are printed one per line and the command exits with status 2.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loader.LoadFile(schemaPath)
			if err != nil {
				return errors.Wrap(err, "load schema")
			}
			doc, src, err := loadInput(cmd, args)
			if errors.Is(err, errNoInput) {
				return errors.WithHint(err, "pass a file or pipe the document on stdin")
			}
			if err != nil {
				return err
			}

			result, err := gojsonschema.Validate(
				gojsonschema.NewGoLoader(value.ToAny(schema)),
				gojsonschema.NewGoLoader(value.ToAny(doc)),
			)
			if err != nil {
				return errors.WithHint(errors.Wrap(err, "schema validation error"), "check that the schema is a valid JSON Schema document")
			}
			out := cmd.OutOrStdout()
			if result.Valid() {
				_, err := fmt.Fprintf(out, "%s: valid\n", src.Name())
				return err
			}
			for _, desc := range result.Errors() {
				fmt.Fprintf(out, "%s: %s: %s\n", src.Name(), desc.Field(), desc.Description())
			}
			return &exitError{
				code: schemaViolationExitCode,
				err:  errors.Newf("%d schema violation(s)", len(result.Errors())),
			}
		},
	}
	c.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema file")
	_ = c.MarkFlagRequired("schema")
	return c
}
