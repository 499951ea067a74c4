package loader

import (
	"github.com/oakwood-commons/kvtree/pkg/value"
)

const maxDecodeDepth = 20

// TryDecode attempts to parse a string as serialized data (JWT, JSON,
// YAML, TOML, NDJSON). It reports true only when the result is an
// object or array; plain text and scalars return false.
func TryDecode(s string) (value.Value, bool) {
	if s == "" {
		return value.Value{}, false
	}
	parsed, err := LoadRoot(s)
	if err != nil {
		return value.Value{}, false
	}
	if k := parsed.Kind(); k != value.Object && k != value.Array {
		return value.Value{}, false
	}
	return parsed, true
}

// RecursiveDecode replaces every string leaf that holds serialized data
// with its parsed structure, recursing into the result.
func RecursiveDecode(v value.Value) value.Value {
	return recursiveDecode(v, 0)
}

func recursiveDecode(v value.Value, depth int) value.Value {
	if depth > maxDecodeDepth {
		return v
	}
	switch v.Kind() {
	case value.Object:
		fields := v.Fields()
		for i := range fields {
			fields[i].Value = recursiveDecode(fields[i].Value, depth+1)
		}
		return value.ObjectValue(fields...)
	case value.Array:
		items := v.Items()
		for i := range items {
			items[i] = recursiveDecode(items[i], depth+1)
		}
		return value.ArrayValue(items...)
	case value.String:
		if decoded, ok := TryDecode(v.AsString()); ok {
			return recursiveDecode(decoded, depth+1)
		}
	}
	return v
}
