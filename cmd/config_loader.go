package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvtree/internal/ui"
	"github.com/oakwood-commons/kvtree/pkg/settings"
)

// configLoader centralizes config loading so callers avoid duplicating merge logic.
type configLoader struct {
	defaultConfig func() ([]byte, error)
}

var cfgLoader = configLoader{defaultConfig: loadDefaultConfigYAML}

func loadMergedConfig(cfgPath string) (ui.Config, error) {
	return cfgLoader.loadMergedConfig(cfgPath)
}

func loadDefaultConfigYAML() ([]byte, error) {
	data := ui.DefaultConfigYAML()
	if len(data) == 0 {
		return nil, fmt.Errorf("embedded default config is empty")
	}
	return data, nil
}

func (l configLoader) loadDefaultConfigRaw() ([]byte, error) {
	if l.defaultConfig != nil {
		return l.defaultConfig()
	}
	return loadDefaultConfigYAML()
}

// loadMergedConfig layers the user file at cfgPath (when set) over the
// embedded defaults.
func (l configLoader) loadMergedConfig(cfgPath string) (ui.Config, error) {
	defaultData, err := l.loadDefaultConfigRaw()
	if err != nil {
		return ui.Config{}, fmt.Errorf("load default config: %w", err)
	}
	cfg, err := ui.ParseConfig(defaultData)
	if err != nil {
		return ui.Config{}, fmt.Errorf("decode default config: %w", err)
	}
	if cfg.UI.Theme.Default == "" || len(cfg.UI.Themes) == 0 {
		return cfg, fmt.Errorf("default config is missing required theme defaults")
	}
	if cfgPath == "" {
		return cfg, nil
	}
	user, err := ui.LoadConfigFile(cfgPath)
	if err != nil {
		return cfg, err
	}
	return mergeConfig(cfg, user), nil
}

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/kvtree/config.yaml) or ~/.config/kvtree/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

func mergeConfig(base, over ui.Config) ui.Config {
	out := base
	pickString(&out.App.About.Name, over.App.About.Name)
	pickString(&out.App.About.Description, over.App.About.Description)
	pickString(&out.App.About.RepositoryURL, over.App.About.RepositoryURL)
	pickString(&out.UI.Theme.Default, over.UI.Theme.Default)

	pickPtr(&out.UI.Behavior.ExpandDepth, over.UI.Behavior.ExpandDepth)
	pickPtr(&out.UI.Behavior.RetainChildren, over.UI.Behavior.RetainChildren)
	pickPtr(&out.UI.Behavior.Decode, over.UI.Behavior.Decode)
	pickPtr(&out.UI.Formatting.Tree.MaxStringLength, over.UI.Formatting.Tree.MaxStringLength)
	pickPtr(&out.UI.Formatting.Tree.NoValues, over.UI.Formatting.Tree.NoValues)
	pickPtr(&out.UI.Formatting.HTML.Standalone, over.UI.Formatting.HTML.Standalone)
	pickString(&out.UI.Formatting.HTML.Title, over.UI.Formatting.HTML.Title)

	out.UI.Styles = mergeStyles(base.UI.Styles, over.UI.Styles)

	out.UI.Themes = make(map[string]ui.ThemeConfig, len(base.UI.Themes)+len(over.UI.Themes))
	for name, tc := range base.UI.Themes {
		out.UI.Themes[name] = tc
	}
	for name, tc := range over.UI.Themes {
		if existing, ok := out.UI.Themes[name]; ok {
			tc = mergeThemeConfig(existing, tc)
		}
		out.UI.Themes[name] = tc
	}
	return out
}

func mergeStyles(base, over ui.StylesConfig) ui.StylesConfig {
	out := base
	pickColor(&out.KeyColor, over.KeyColor)
	pickColor(&out.BackgroundColor, over.BackgroundColor)
	if !over.ValueColor.IsZero() {
		out.ValueColor = over.ValueColor
	}
	if !over.Font.IsZero() {
		out.Font = over.Font
	}
	pickString(&out.ContainerClass, over.ContainerClass)
	pickString(&out.KeyClass, over.KeyClass)
	pickString(&out.ValueClass, over.ValueClass)
	return out
}

func mergeThemeConfig(base, over ui.ThemeConfig) ui.ThemeConfig {
	out := base
	pickString(&out.Description, over.Description)
	pickColor(&out.KeyColor, over.KeyColor)
	pickColor(&out.StringColor, over.StringColor)
	pickColor(&out.NumberColor, over.NumberColor)
	pickColor(&out.BooleanColor, over.BooleanColor)
	pickColor(&out.NullColor, over.NullColor)
	pickColor(&out.PreviewColor, over.PreviewColor)
	pickColor(&out.BackgroundColor, over.BackgroundColor)
	if len(over.DepthKeyColors) > 0 {
		out.DepthKeyColors = append([]ui.ColorValue(nil), over.DepthKeyColors...)
	}
	out.KeyFont = mergeFontConfig(base.KeyFont, over.KeyFont)
	out.ValueFont = mergeFontConfig(base.ValueFont, over.ValueFont)
	pickColor(&out.FooterFG, over.FooterFG)
	pickColor(&out.FooterBG, over.FooterBG)
	pickColor(&out.HelpKeyColor, over.HelpKeyColor)
	pickColor(&out.HelpDescColor, over.HelpDescColor)
	return out
}

func mergeFontConfig(base, over ui.FontConfig) ui.FontConfig {
	pickString(&base.Family, over.Family)
	pickString(&base.Weight, over.Weight)
	pickString(&base.Size, over.Size)
	return base
}

func pickString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func pickColor(dst *ui.ColorValue, v ui.ColorValue) {
	if v != "" {
		*dst = v
	}
}

func pickPtr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

// applyFlagOverrides copies explicitly set flags over cfg.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *ui.Config, opts *rootOptions) {
	if flags.Changed("theme") {
		cfg.UI.Theme.Default = opts.run.Theme
	}
	if flags.Changed("expand-depth") {
		pickPtr(&cfg.UI.Behavior.ExpandDepth, &opts.expandDepth)
	}
	if flags.Changed("retain") {
		pickPtr(&cfg.UI.Behavior.RetainChildren, &opts.retain)
	}
	if flags.Changed("decode") {
		pickPtr(&cfg.UI.Behavior.Decode, &opts.decode)
	}
	if flags.Changed("tree-no-values") {
		pickPtr(&cfg.UI.Formatting.Tree.NoValues, &opts.treeNoValues)
	}
	if flags.Changed("tree-max-string") {
		pickPtr(&cfg.UI.Formatting.Tree.MaxStringLength, &opts.treeMaxString)
	}
	if flags.Changed("standalone") {
		pickPtr(&cfg.UI.Formatting.HTML.Standalone, &opts.standalone)
	}
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// renderConfigYAML marshals cfg with each field's yamlcomment tag attached.
func renderConfigYAML(cfg ui.Config) (string, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	annotateNode(root, reflect.TypeOf(cfg))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

func annotateNode(n *yaml.Node, t reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if n.Kind != yaml.MappingNode {
		return
	}
	switch t.Kind() {
	case reflect.Map:
		for i := 1; i < len(n.Content); i += 2 {
			annotateNode(n.Content[i], t.Elem())
		}
	case reflect.Struct:
		fields := yamlFields(t)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			f, ok := fields[k.Value]
			if !ok {
				continue
			}
			if c := f.Tag.Get("yamlcomment"); c != "" {
				if v.Kind == yaml.ScalarNode {
					v.LineComment = c
				} else {
					k.HeadComment = c
				}
			}
			annotateNode(v, f.Type)
		}
	}
}

func yamlFields(t reflect.Type) map[string]reflect.StructField {
	out := make(map[string]reflect.StructField, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		out[name] = f
	}
	return out
}
