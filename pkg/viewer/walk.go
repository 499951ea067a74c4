package viewer

import (
	"strconv"

	"github.com/oakwood-commons/kvtree/pkg/value"
)

// RootKey is the key of the synthetic entry that wraps a root array.
const RootKey = "value"

// Entry is one key/value pair of a container.
type Entry struct {
	Key   string
	Value value.Value
}

// Entries lists the entries of an object (insertion order) or an array
// (ascending decimal index). Scalars have no entries.
func Entries(v value.Value) []Entry {
	switch v.Kind() {
	case value.Object:
		fields := v.Fields()
		out := make([]Entry, len(fields))
		for i, f := range fields {
			out[i] = Entry{Key: f.Key, Value: f.Value}
		}
		return out
	case value.Array:
		items := v.Items()
		out := make([]Entry, len(items))
		for i, it := range items {
			out[i] = Entry{Key: strconv.Itoa(i), Value: it}
		}
		return out
	default:
		return nil
	}
}

// RootEntries is Entries for the top-level value: an array becomes a
// single entry keyed RootKey so it renders as one expandable row.
func RootEntries(v value.Value) []Entry {
	if v.Kind() == value.Array {
		return []Entry{{Key: RootKey, Value: v}}
	}
	return Entries(v)
}

// IsExpandable reports whether v is a non-empty object or array.
func IsExpandable(v value.Value) bool {
	switch v.Kind() {
	case value.Object, value.Array:
		return v.Len() > 0
	default:
		return false
	}
}

// Preview is the collapsed summary of a container, e.g. "{ 2 items }".
func Preview(v value.Value) string {
	open, closing := "{", "}"
	if v.Kind() == value.Array {
		open, closing = "[", "]"
	}
	n := v.Len()
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	return open + " " + strconv.Itoa(n) + " " + noun + " " + closing
}
