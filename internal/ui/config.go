package ui

import (
	"fmt"
	"os"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

// Config is the full configuration file.
type Config struct {
	App AppConfig `yaml:"app"`
	UI  UIConfig  `yaml:"ui"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	About AboutConfig `yaml:"about"`
}

// AboutConfig describes the application.
type AboutConfig struct {
	Name          string `yaml:"name,omitempty" yamlcomment:"Application name"`
	Description   string `yaml:"description,omitempty" yamlcomment:"One-line description"`
	RepositoryURL string `yaml:"repository_url,omitempty" yamlcomment:"Source repository"`
}

// UIConfig is the ui section.
type UIConfig struct {
	Theme      ThemeSelection         `yaml:"theme"`
	Behavior   BehaviorConfig         `yaml:"behavior,omitempty"`
	Styles     StylesConfig           `yaml:"styles,omitempty"`
	Formatting FormattingConfig       `yaml:"formatting,omitempty"`
	Themes     map[string]ThemeConfig `yaml:"themes"`
}

// ThemeSelection picks the active theme.
type ThemeSelection struct {
	Default string `yaml:"default" yamlcomment:"Theme used when --theme is not given"`
}

// BehaviorConfig sets the initial state of the tree.
type BehaviorConfig struct {
	ExpandDepth    *int  `yaml:"expand_depth,omitempty" yamlcomment:"Expand containers above this depth on load"`
	RetainChildren *bool `yaml:"retain_children,omitempty" yamlcomment:"Keep nested expansion when a parent collapses"`
	Decode         *bool `yaml:"decode,omitempty" yamlcomment:"Decode JSON and YAML embedded in string values"`
}

// FormattingConfig holds per-output options.
type FormattingConfig struct {
	Tree TreeFormattingConfig `yaml:"tree,omitempty"`
	HTML HTMLFormattingConfig `yaml:"html,omitempty"`
}

// TreeFormattingConfig configures the tree output.
type TreeFormattingConfig struct {
	MaxStringLength *int  `yaml:"max_string_length,omitempty" yamlcomment:"Truncate long values (0 keeps them whole)"`
	NoValues        *bool `yaml:"no_values,omitempty" yamlcomment:"Print keys only"`
}

// HTMLFormattingConfig configures the html output.
type HTMLFormattingConfig struct {
	Standalone *bool  `yaml:"standalone,omitempty" yamlcomment:"Wrap the tree in a full HTML document"`
	Title      string `yaml:"title,omitempty" yamlcomment:"Document title for standalone output"`
}

// StylesConfig is the ui.styles section. Keys may be written in camelCase.
type StylesConfig struct {
	KeyColor        ColorValue       `yaml:"key_color,omitempty"`
	ValueColor      ValueColorConfig `yaml:"value_color,omitempty"`
	BackgroundColor ColorValue       `yaml:"background_color,omitempty"`
	Font            FontsConfig      `yaml:"font,omitempty"`
	ContainerClass  string           `yaml:"container_class,omitempty"`
	KeyClass        string           `yaml:"key_class,omitempty"`
	ValueClass      string           `yaml:"value_class,omitempty"`
}

func (s *StylesConfig) UnmarshalYAML(node *yaml.Node) error {
	type alias StylesConfig
	var out alias
	if err := snakeKeys(node).Decode(&out); err != nil {
		return err
	}
	*s = StylesConfig(out)
	return nil
}

// IsZero reports whether no override is set.
func (s StylesConfig) IsZero() bool {
	return s.KeyColor == "" && s.ValueColor.IsZero() && s.BackgroundColor == "" &&
		s.Font.IsZero() && s.ContainerClass == "" && s.KeyClass == "" && s.ValueClass == ""
}

// Styles converts the overrides to viewer styles over palette.
func (s StylesConfig) Styles(palette viewer.Palette) viewer.Styles {
	return viewer.Styles{
		KeyColor:        string(s.KeyColor),
		ValueColor:      string(s.ValueColor.Flat),
		StringColor:     string(s.ValueColor.String),
		NumberColor:     string(s.ValueColor.Number),
		BooleanColor:    string(s.ValueColor.Boolean),
		NullColor:       string(s.ValueColor.Null),
		BackgroundColor: string(s.BackgroundColor),
		KeyFont:         s.Font.Key.Font(),
		ValueFont:       s.Font.Value.Font(),
		ContainerClass:  s.ContainerClass,
		KeyClass:        s.KeyClass,
		ValueClass:      s.ValueClass,
		Palette:         palette,
	}
}

// ValueColorConfig is either one color for all values or per-type colors.
type ValueColorConfig struct {
	Flat    ColorValue
	String  ColorValue `yaml:"string,omitempty"`
	Number  ColorValue `yaml:"number,omitempty"`
	Boolean ColorValue `yaml:"boolean,omitempty"`
	Null    ColorValue `yaml:"null,omitempty"`
}

// IsZero reports whether no color is set.
func (v ValueColorConfig) IsZero() bool { return v == ValueColorConfig{} }

func (v *ValueColorConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = ValueColorConfig{}
		return v.Flat.UnmarshalYAML(node)
	case yaml.MappingNode:
		// Keys are matched by their text: a bare null key resolves to !!null.
		var out ValueColorConfig
		for i := 0; i+1 < len(node.Content); i += 2 {
			var dst *ColorValue
			switch node.Content[i].Value {
			case "string":
				dst = &out.String
			case "number":
				dst = &out.Number
			case "boolean":
				dst = &out.Boolean
			case "null", "~":
				dst = &out.Null
			default:
				return fmt.Errorf("line %d: unknown value_color type %q", node.Content[i].Line, node.Content[i].Value)
			}
			if err := dst.UnmarshalYAML(node.Content[i+1]); err != nil {
				return err
			}
		}
		*v = out
		return nil
	default:
		return fmt.Errorf("line %d: value_color must be a color or a mapping of string, number, boolean and null", node.Line)
	}
}

func (v ValueColorConfig) MarshalYAML() (interface{}, error) {
	if v.Flat != "" {
		return v.Flat.MarshalYAML()
	}
	return struct {
		String  ColorValue `yaml:"string,omitempty"`
		Number  ColorValue `yaml:"number,omitempty"`
		Boolean ColorValue `yaml:"boolean,omitempty"`
		Null    ColorValue `yaml:"null,omitempty"`
	}{v.String, v.Number, v.Boolean, v.Null}, nil
}

// FontsConfig is one font record for both slots, or separate key and value records.
type FontsConfig struct {
	Key   FontConfig
	Value FontConfig
}

// IsZero reports whether no font attribute is set.
func (f FontsConfig) IsZero() bool { return f.Key.IsZero() && f.Value.IsZero() }

func (f *FontsConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: font must be a mapping", node.Line)
	}
	split := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		if k := node.Content[i].Value; k == "key" || k == "value" {
			split = true
			break
		}
	}
	if !split {
		var shared FontConfig
		if err := node.Decode(&shared); err != nil {
			return err
		}
		*f = FontsConfig{Key: shared, Value: shared}
		return nil
	}
	var pair struct {
		Key   FontConfig `yaml:"key"`
		Value FontConfig `yaml:"value"`
	}
	if err := node.Decode(&pair); err != nil {
		return err
	}
	*f = FontsConfig{Key: pair.Key, Value: pair.Value}
	return nil
}

func (f FontsConfig) MarshalYAML() (interface{}, error) {
	if f.Key == f.Value {
		return f.Key, nil
	}
	return struct {
		Key   FontConfig `yaml:"key,omitempty"`
		Value FontConfig `yaml:"value,omitempty"`
	}{f.Key, f.Value}, nil
}

// snakeKeys returns a copy of node with every mapping key in snake_case.
func snakeKeys(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}
	out := *node
	if len(node.Content) == 0 {
		return &out
	}
	out.Content = make([]*yaml.Node, len(node.Content))
	for i, child := range node.Content {
		if node.Kind == yaml.MappingNode && i%2 == 0 && child.Kind == yaml.ScalarNode {
			k := *child
			k.Value = strcase.ToSnake(child.Value)
			out.Content[i] = &k
			continue
		}
		out.Content[i] = snakeKeys(child)
	}
	return &out
}

// ParseConfig decodes a configuration document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes the configuration at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}
