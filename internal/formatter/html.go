package formatter

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

// HTMLChevron is drawn for expandable rows and rotated when expanded.
const HTMLChevron = "›"

const htmlTemplates = `
{{- define "block" -}}
<div class="kvtree-block{{with .Class}} {{.}}{{end}}" style="{{.Style}}">
{{- range .Rows}}
<div class="kvtree-entry" data-node-id="{{.ID}}">
<div class="kvtree-row{{if .Expandable}} kvtree-expandable{{end}}"{{if .Expandable}} aria-expanded="{{.Expanded}}"{{end}}>
<span class="kvtree-indicator" style="{{.GlyphStyle}}">{{.Glyph}}</span>
<span class="kvtree-key{{with .KeyClass}} {{.}}{{end}}" style="{{.KeyStyle}}">{{.Key}}</span>
<span class="kvtree-sep" style="{{$.MutedStyle}}">:</span>
<span class="kvtree-value kvtree-{{.Kind}}{{with .ValueClass}} {{.}}{{end}}" style="{{.ValueStyle}}">{{.Text}}</span>
</div>
{{- with .Children}}
<div class="kvtree-children" style="{{$.GuideStyle}}">
{{template "block" .}}
</div>
{{- end}}
</div>
{{- end}}
</div>
{{- end -}}

{{- define "document" -}}
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{template "block" .Block}}
</body>
</html>
{{end -}}
`

var htmlTmpl = template.Must(template.New("kvtree").Parse(htmlTemplates))

// HTMLOptions controls HTML rendering.
type HTMLOptions struct {
	// Standalone wraps the tree in a complete HTML document.
	Standalone bool
	Title      string
}

type htmlBlock struct {
	Class      string
	Style      template.CSS
	MutedStyle template.CSS
	GuideStyle template.CSS
	Rows       []htmlRow
}

type htmlRow struct {
	ID         string
	Expandable bool
	Expanded   bool
	Glyph      string
	GlyphStyle template.CSS
	Key        string
	KeyClass   string
	KeyStyle   template.CSS
	Kind       string
	Text       string
	ValueClass string
	ValueStyle template.CSS
	Children   *htmlBlock
}

// RenderHTML writes the visible rows of b as nested HTML. Colors and
// fonts are inline styles; class overrides are appended to the built-in
// kvtree-* classes.
func RenderHTML(w io.Writer, b viewer.Block, opts HTMLOptions) error {
	hb := toHTMLBlock(b)
	var err error
	if opts.Standalone {
		title := opts.Title
		if title == "" {
			title = "kvtree"
		}
		err = htmlTmpl.ExecuteTemplate(w, "document", struct {
			Title string
			Block htmlBlock
		}{title, hb})
	} else {
		err = htmlTmpl.ExecuteTemplate(w, "block", hb)
	}
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTML is RenderHTML into a string.
func HTML(b viewer.Block, opts HTMLOptions) (string, error) {
	var sb strings.Builder
	if err := RenderHTML(&sb, b, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toHTMLBlock(b viewer.Block) htmlBlock {
	hb := htmlBlock{
		Class: b.Style.Class,
		Style: css(
			"background-color", b.Style.Background,
			"padding", "0.5rem",
			"border-radius", "0.5rem",
		),
		MutedStyle: css("color", b.Style.Muted, "margin", "0 0.25rem"),
		GuideStyle: css(
			"margin-left", "1rem",
			"padding-left", "1rem",
			"border-left", "1px solid "+sanitizeCSS(b.Style.Muted),
		),
		Rows: make([]htmlRow, 0, len(b.Rows)),
	}
	for _, r := range b.Rows {
		hr := htmlRow{
			ID:         string(r.ID),
			Expandable: r.Expandable,
			Expanded:   r.Expanded,
			Key:        r.Key,
			KeyClass:   r.KeyStyle.Class,
			KeyStyle:   textCSS(r.KeyStyle),
			Kind:       r.Kind.String(),
			Text:       r.Text,
			ValueClass: r.ValueStyle.Class,
			ValueStyle: textCSS(r.ValueStyle),
			GlyphStyle: css("display", "inline-block", "width", "1rem", "margin-right", "0.25rem"),
		}
		if r.Expandable {
			hr.Glyph = HTMLChevron
			rotate := "none"
			if r.Expanded {
				rotate = "rotate(90deg)"
			}
			hr.GlyphStyle = css(
				"display", "inline-block",
				"width", "1rem",
				"margin-right", "0.25rem",
				"color", b.Style.Muted,
				"cursor", "pointer",
				"transform", rotate,
			)
		}
		if r.Children != nil {
			child := toHTMLBlock(*r.Children)
			hr.Children = &child
		}
		hb.Rows = append(hb.Rows, hr)
	}
	return hb
}

func textCSS(ts viewer.TextStyle) template.CSS {
	return css(
		"color", ts.Color,
		"font-family", ts.Font.Family,
		"font-weight", ts.Font.Weight,
		"font-size", ts.Font.Size,
	)
}

// css builds a declaration list from property/value pairs, skipping
// empty values. Values are sanitized before being trusted as CSS.
func css(pairs ...string) template.CSS {
	decls := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		v := sanitizeCSS(pairs[i+1])
		if v == "" {
			continue
		}
		decls = append(decls, pairs[i]+":"+v)
	}
	return template.CSS(strings.Join(decls, ";"))
}

// sanitizeCSS keeps the characters that colors, lengths, weights and
// font family lists need. Double quotes become single quotes.
func sanitizeCSS(v string) string {
	v = strings.TrimSpace(v)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '"':
			return '\''
		case strings.ContainsRune("#(),.% -_'", r):
			return r
		}
		return -1
	}, v)
}
