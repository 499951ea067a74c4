package formatter

import (
	"strings"
	"testing"

	"github.com/oakwood-commons/kvtree/pkg/value"
	"github.com/oakwood-commons/kvtree/pkg/viewer"
)

func TestFormatAsTreeCollapsed(t *testing.T) {
	v := viewer.New(value.ObjectValue(
		value.F("server", value.ObjectValue(
			value.F("host", value.StringValue("localhost")),
			value.F("port", value.NumberValue(8080)),
		)),
		value.F("debug", value.BoolValue(false)),
	))

	result := FormatAsTree(v.Render(), TreeOptions{})
	if !strings.HasPrefix(result, ".") {
		t.Error("expected tree to start with root marker '.'")
	}
	if !strings.Contains(result, "server: { 2 items }") {
		t.Errorf("expected collapsed preview, got:\n%s", result)
	}
	if strings.Contains(result, "host") {
		t.Errorf("collapsed children must not be listed, got:\n%s", result)
	}

	v.TogglePath("server")
	result = FormatAsTree(v.Render(), TreeOptions{})
	if !strings.Contains(result, `host: "localhost"`) {
		t.Errorf("expected expanded child, got:\n%s", result)
	}
	if !strings.Contains(result, "port: 8080") {
		t.Errorf("expected 'port: 8080', got:\n%s", result)
	}
}

func TestFormatAsTreeTruncation(t *testing.T) {
	v := viewer.New(value.ObjectValue(
		value.F("desc", value.StringValue(strings.Repeat("x", 40))),
	))
	result := FormatAsTree(v.Render(), TreeOptions{MaxStringLen: 10})
	if !strings.Contains(result, `desc: "xxxxxx...`) {
		t.Errorf("expected truncated value, got:\n%s", result)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
