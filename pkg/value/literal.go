package value

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Literal formats v as its canonical JSON literal: strings quoted and
// escaped, numbers in shortest round-trip form, booleans and null as
// keywords. Non-HTML-escaping, so "<" stays "<". Empty containers format
// as "{}" and "[]"; non-empty containers as their compact JSON text.
func Literal(v Value) string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			// JSON has no literal for these.
			return "null"
		}
		return encodeJSON(v.n)
	case String:
		return encodeJSON(v.s)
	case Object:
		if len(v.fields) == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(encodeJSON(f.Key))
			b.WriteByte(':')
			b.WriteString(Literal(f.Value))
		}
		b.WriteByte('}')
		return b.String()
	case Array:
		if len(v.items) == 0 {
			return "[]"
		}
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = Literal(it)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return "null"
}

func encodeJSON(x any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return "null"
	}
	return strings.TrimRight(buf.String(), "\n")
}
