package viewer

import "github.com/oakwood-commons/kvtree/pkg/value"

// Built-in colors used when neither Styles nor its Palette set one.
const (
	DefaultKeyColor        = "#2563eb"
	DefaultStringColor     = "#111827"
	DefaultNumberColor     = "#b45309"
	DefaultBooleanColor    = "#7c3aed"
	DefaultNullColor       = "#6b7280"
	DefaultPreviewColor    = "#6b7280"
	DefaultBackgroundColor = "#ffffff"
	DefaultKeyWeight       = "600"
)

// Font holds font attributes. Empty fields are unset.
type Font struct {
	Family string
	Weight string
	Size   string
}

// IsZero reports whether no attribute is set.
func (f Font) IsZero() bool { return f == Font{} }

// Palette is the built-in default layer of style resolution. Themes
// swap palettes; callers override single attributes through Styles.
type Palette struct {
	Key        string
	String     string
	Number     string
	Boolean    string
	Null       string
	Preview    string
	Background string
	// DepthKeyColors, when set, colors keys by nesting depth (cycled).
	DepthKeyColors []string
	KeyFont        Font
	ValueFont      Font
}

// DefaultPalette is the palette used for unset Palette fields.
func DefaultPalette() Palette {
	return Palette{
		Key:        DefaultKeyColor,
		String:     DefaultStringColor,
		Number:     DefaultNumberColor,
		Boolean:    DefaultBooleanColor,
		Null:       DefaultNullColor,
		Preview:    DefaultPreviewColor,
		Background: DefaultBackgroundColor,
		KeyFont:    Font{Weight: DefaultKeyWeight},
	}
}

// Styles are caller overrides shared unchanged by every instance of a
// tree. Empty fields fall through to the palette.
type Styles struct {
	KeyColor string
	// ValueColor is the general value color; only strings fall back to it.
	ValueColor   string
	StringColor  string
	NumberColor  string
	BooleanColor string
	NullColor    string

	BackgroundColor string

	KeyFont   Font
	ValueFont Font

	ContainerClass string
	KeyClass       string
	ValueClass     string

	Palette Palette
}

// TextStyle is a fully resolved style for a key or a value slot.
type TextStyle struct {
	Color string
	Font  Font
	Class string
}

// BlockStyle is the resolved style for one instance's container.
type BlockStyle struct {
	Background string
	Class      string
	// Muted colors separators, disclosure glyphs and the nesting guide.
	Muted string
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func mergeFont(override, base Font) Font {
	return Font{
		Family: first(override.Family, base.Family),
		Weight: first(override.Weight, base.Weight),
		Size:   first(override.Size, base.Size),
	}
}

func (s *Styles) palette() Palette {
	def := DefaultPalette()
	if s == nil {
		return def
	}
	p := s.Palette
	return Palette{
		Key:            first(p.Key, def.Key),
		String:         first(p.String, def.String),
		Number:         first(p.Number, def.Number),
		Boolean:        first(p.Boolean, def.Boolean),
		Null:           first(p.Null, def.Null),
		Preview:        first(p.Preview, def.Preview),
		Background:     first(p.Background, def.Background),
		DepthKeyColors: p.DepthKeyColors,
		KeyFont:        mergeFont(p.KeyFont, def.KeyFont),
		ValueFont:      mergeFont(p.ValueFont, def.ValueFont),
	}
}

// KeyStyle resolves the key style at depth.
func (s *Styles) KeyStyle(depth int) TextStyle {
	p := s.palette()
	var o Styles
	if s != nil {
		o = *s
	}
	depthColor := ""
	if n := len(p.DepthKeyColors); n > 0 && depth >= 0 {
		depthColor = p.DepthKeyColors[depth%n]
	}
	return TextStyle{
		Color: first(o.KeyColor, depthColor, p.Key),
		Font:  mergeFont(o.KeyFont, p.KeyFont),
		Class: o.KeyClass,
	}
}

// LeafColor resolves the color of a leaf of kind k. Containers resolve
// to the preview color.
func (s *Styles) LeafColor(k value.Kind) string {
	p := s.palette()
	var o Styles
	if s != nil {
		o = *s
	}
	switch k {
	case value.Null:
		return first(o.NullColor, p.Null)
	case value.String:
		return first(o.StringColor, o.ValueColor, p.String)
	case value.Number:
		return first(o.NumberColor, p.Number)
	case value.Bool:
		return first(o.BooleanColor, p.Boolean)
	default:
		return p.Preview
	}
}

// ValueStyle resolves the value slot style for v.
func (s *Styles) ValueStyle(v value.Value) TextStyle {
	p := s.palette()
	var o Styles
	if s != nil {
		o = *s
	}
	color := s.LeafColor(v.Kind())
	if IsExpandable(v) {
		color = p.Preview
	}
	return TextStyle{
		Color: color,
		Font:  mergeFont(o.ValueFont, p.ValueFont),
		Class: o.ValueClass,
	}
}

// BlockStyle resolves the container style.
func (s *Styles) BlockStyle() BlockStyle {
	p := s.palette()
	var o Styles
	if s != nil {
		o = *s
	}
	return BlockStyle{
		Background: first(o.BackgroundColor, p.Background),
		Class:      o.ContainerClass,
		Muted:      p.Preview,
	}
}
