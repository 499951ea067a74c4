package ui

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

// Theme is a named tree palette plus the colors of the interactive chrome.
type Theme struct {
	Name        string
	Description string
	Palette     viewer.Palette

	FooterFG      color.Color
	FooterBG      color.Color
	HelpKeyColor  color.Color
	HelpDescColor color.Color
}

// DisplayName is the title-cased theme name.
func (t Theme) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(t.Name, "-", " "))
}

// builtinTheme is the base for themes that leave fields unset.
func builtinTheme() Theme {
	return Theme{
		Name:          DefaultThemeName,
		Palette:       viewer.DefaultPalette(),
		FooterFG:      lipgloss.Color("#374151"),
		FooterBG:      lipgloss.Color("#e5e7eb"),
		HelpKeyColor:  lipgloss.Color("#2563eb"),
		HelpDescColor: lipgloss.Color("#6b7280"),
	}
}

// DefaultThemeName is used when no theme is selected.
const DefaultThemeName = "light"

// loadedThemes holds themes built from the merged configuration.
var loadedThemes = map[string]Theme{}

// ColorValue stores a color token (number or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: s,
		}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a scalar", value.Line)
	}
	*c = ColorValue(strings.TrimSpace(value.Value))
	return nil
}

// FontConfig is a font record.
type FontConfig struct {
	Family string `yaml:"family,omitempty"`
	Weight string `yaml:"weight,omitempty"`
	Size   string `yaml:"size,omitempty"`
}

// IsZero reports whether no attribute is set.
func (f FontConfig) IsZero() bool { return f == FontConfig{} }

// Font converts the record to a viewer font.
func (f FontConfig) Font() viewer.Font {
	return viewer.Font{Family: f.Family, Weight: f.Weight, Size: f.Size}
}

// ThemeConfig describes one theme in YAML.
type ThemeConfig struct {
	Description     string       `yaml:"description,omitempty" yamlcomment:"Shown by the themes command"`
	KeyColor        ColorValue   `yaml:"key_color,omitempty" yamlcomment:"Key color"`
	StringColor     ColorValue   `yaml:"string_color,omitempty" yamlcomment:"String literal color"`
	NumberColor     ColorValue   `yaml:"number_color,omitempty" yamlcomment:"Number literal color"`
	BooleanColor    ColorValue   `yaml:"boolean_color,omitempty" yamlcomment:"Boolean literal color"`
	NullColor       ColorValue   `yaml:"null_color,omitempty" yamlcomment:"null color"`
	PreviewColor    ColorValue   `yaml:"preview_color,omitempty" yamlcomment:"Collapsed previews, separators and guides"`
	BackgroundColor ColorValue   `yaml:"background_color,omitempty" yamlcomment:"Tree background"`
	DepthKeyColors  []ColorValue `yaml:"depth_key_colors,omitempty" yamlcomment:"Key colors cycled by nesting depth"`
	KeyFont         FontConfig   `yaml:"key_font,omitempty" yamlcomment:"Key font"`
	ValueFont       FontConfig   `yaml:"value_font,omitempty" yamlcomment:"Value font"`
	FooterFG        ColorValue   `yaml:"footer_fg,omitempty" yamlcomment:"Footer foreground"`
	FooterBG        ColorValue   `yaml:"footer_bg,omitempty" yamlcomment:"Footer background"`
	HelpKeyColor    ColorValue   `yaml:"help_key_color,omitempty" yamlcomment:"Key names in the help line"`
	HelpDescColor   ColorValue   `yaml:"help_desc_color,omitempty" yamlcomment:"Descriptions in the help line"`
}

// ThemeFromConfig builds a theme on top of the built-in palette.
func ThemeFromConfig(name string, cfg ThemeConfig) Theme {
	return themeFromConfigWithBase(name, cfg, builtinTheme())
}

func themeFromConfigWithBase(name string, cfg ThemeConfig, base Theme) Theme {
	t := base
	t.Name = name
	if cfg.Description != "" {
		t.Description = cfg.Description
	}
	setHex := func(dst *string, v ColorValue) {
		if v != "" {
			*dst = string(v)
		}
	}
	setColor := func(dst *color.Color, v ColorValue) {
		if v != "" {
			*dst = lipgloss.Color(string(v))
		}
	}
	p := &t.Palette
	setHex(&p.Key, cfg.KeyColor)
	setHex(&p.String, cfg.StringColor)
	setHex(&p.Number, cfg.NumberColor)
	setHex(&p.Boolean, cfg.BooleanColor)
	setHex(&p.Null, cfg.NullColor)
	setHex(&p.Preview, cfg.PreviewColor)
	setHex(&p.Background, cfg.BackgroundColor)
	if len(cfg.DepthKeyColors) > 0 {
		p.DepthKeyColors = make([]string, 0, len(cfg.DepthKeyColors))
		for _, c := range cfg.DepthKeyColors {
			if c != "" {
				p.DepthKeyColors = append(p.DepthKeyColors, string(c))
			}
		}
	}
	if !cfg.KeyFont.IsZero() {
		p.KeyFont = mergeFont(cfg.KeyFont.Font(), p.KeyFont)
	}
	if !cfg.ValueFont.IsZero() {
		p.ValueFont = mergeFont(cfg.ValueFont.Font(), p.ValueFont)
	}
	setColor(&t.FooterFG, cfg.FooterFG)
	setColor(&t.FooterBG, cfg.FooterBG)
	setColor(&t.HelpKeyColor, cfg.HelpKeyColor)
	setColor(&t.HelpDescColor, cfg.HelpDescColor)
	return t
}

func mergeFont(override, base viewer.Font) viewer.Font {
	if override.Family == "" {
		override.Family = base.Family
	}
	if override.Weight == "" {
		override.Weight = base.Weight
	}
	if override.Size == "" {
		override.Size = base.Size
	}
	return override
}

// InitializeThemes replaces the loaded themes with those in cfg.
func InitializeThemes(cfg Config) error {
	if len(cfg.UI.Themes) == 0 {
		return fmt.Errorf("configuration defines no themes")
	}
	themes := make(map[string]Theme, len(cfg.UI.Themes))
	for name, tc := range cfg.UI.Themes {
		themes[name] = ThemeFromConfig(name, tc)
	}
	loadedThemes = themes
	return nil
}

// GetTheme returns a loaded theme by name.
func GetTheme(name string) (Theme, error) {
	if len(loadedThemes) == 0 {
		return Theme{}, fmt.Errorf("no themes loaded; call InitializeThemes() before GetTheme()")
	}
	if t, ok := loadedThemes[name]; ok {
		return t, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
}

// ThemeNames lists the loaded themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(loadedThemes))
	for name := range loadedThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAvailableThemes returns a copy of the loaded themes.
func GetAvailableThemes() map[string]Theme {
	result := make(map[string]Theme, len(loadedThemes))
	for name, t := range loadedThemes {
		result[name] = t
	}
	return result
}

// DefaultTheme returns the embedded default theme, or the built-in palette
// when the embedded configuration cannot be used.
func DefaultTheme() Theme {
	cfg, err := EmbeddedDefaultConfig()
	if err != nil {
		return builtinTheme()
	}
	name := cfg.UI.Theme.Default
	if name == "" {
		name = DefaultThemeName
	}
	tc, ok := cfg.UI.Themes[name]
	if !ok {
		return builtinTheme()
	}
	return ThemeFromConfig(name, tc)
}
