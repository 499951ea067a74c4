package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/kvtree/pkg/value"
	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

func TestRenderHTMLStructure(t *testing.T) {
	v := viewer.New(value.ObjectValue(
		value.F("user", value.ObjectValue(value.F("name", value.StringValue("<script>")))),
		value.F("n", value.NumberValue(3)),
	), viewer.WithStyles(viewer.Styles{
		ContainerClass: "my-tree",
		KeyClass:       "k",
		KeyFont:        viewer.Font{Family: `"Fira Code", monospace`},
	}))

	out, err := HTML(v.Render(), HTMLOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, `class="kvtree-block my-tree"`)
	assert.Contains(t, out, `data-node-id="user"`)
	assert.Contains(t, out, `aria-expanded="false"`)
	assert.Contains(t, out, "{ 1 item }")
	assert.Contains(t, out, `class="kvtree-key k"`)
	assert.Contains(t, out, "Fira Code")
	assert.NotContains(t, out, `"Fira Code"`, "double quotes are replaced inside style attributes")
	assert.NotContains(t, out, "kvtree-children", "collapsed rows render no child block")

	require.True(t, v.TogglePath("user"))
	out, err = HTML(v.Render(), HTMLOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, `aria-expanded="true"`)
	assert.Contains(t, out, "rotate(90deg)")
	assert.Contains(t, out, `data-node-id="user.name"`)
	assert.Equal(t, 1, strings.Count(out, `class="kvtree-children"`))
	assert.Contains(t, out, "&#34;&lt;script&gt;&#34;", "value text must be escaped")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "kvtree-number")
}

func TestRenderHTMLStandalone(t *testing.T) {
	v := viewer.New(value.ObjectValue(value.F("a", value.NullValue())))
	out, err := HTML(v.Render(), HTMLOptions{Standalone: true, Title: "data.json"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>data.json</title>")
	assert.Contains(t, out, "background-color:"+viewer.DefaultBackgroundColor)
}

func TestSanitizeCSS(t *testing.T) {
	assert.Equal(t, "#2563eb", sanitizeCSS(" #2563eb "))
	assert.Equal(t, "rgb(1, 2, 3)", sanitizeCSS("rgb(1, 2, 3)"))
	assert.Equal(t, "redbackgroundurl(javascriptx)", sanitizeCSS("red;background:url(javascript:x)"))
	assert.Equal(t, "'Fira Code'", sanitizeCSS(`"Fira Code"`))
}

func TestCSSSkipsEmptyValues(t *testing.T) {
	assert.Equal(t, "color:#fff;font-size:12px", string(css("color", "#fff", "font-family", "", "font-size", "12px")))
	assert.Equal(t, "", string(css("color", "")))
}
