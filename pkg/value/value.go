// Package value defines the JSON-like data model rendered by the viewer.
//
// A Value is an immutable tagged union of null, boolean, number, string,
// object and array. Objects keep their fields in insertion order so that
// rendering follows the order of the source document.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Kind identifies which member of the union a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Object
	Array
)

// String returns the lower-case type name used in style configuration
// (for example "string" or "boolean").
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsScalar reports whether the kind is a scalar or null.
func (k Kind) IsScalar() bool {
	return k != Object && k != Array
}

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value Value
}

// Value is a JSON-like value. The zero Value is Null.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	fields []Field
	items  []Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: Number, n: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ObjectValue builds an object from fields in the given order.
// Later duplicates of a key replace the earlier value in place.
func ObjectValue(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	seen := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := seen[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		seen[f.Key] = len(out)
		out = append(out, f)
	}
	return Value{kind: Object, fields: out}
}

// ArrayValue builds an array from items.
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, items: append([]Value(nil), items...)}
}

// F is shorthand for a Field literal.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// AsBool returns the boolean payload, false for other kinds.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric payload, 0 for other kinds.
func (v Value) AsNumber() float64 { return v.n }

// AsString returns the string payload, "" for other kinds.
func (v Value) AsString() string { return v.s }

// Fields returns a copy of the object's fields in order.
func (v Value) Fields() []Field {
	if v.kind != Object {
		return nil
	}
	return append([]Field(nil), v.fields...)
}

// Items returns a copy of the array's items.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Len is the number of fields of an object or items of an array; 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case Object:
		return len(v.fields)
	case Array:
		return len(v.items)
	default:
		return 0
	}
}

// Get returns the field named key of an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Index returns the i-th item of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Equal reports deep equality. Object field order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Number:
		return v.n == o.n
	case String:
		return v.s == o.s
	case Object:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != o.fields[i].Key || !v.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	case Array:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Lookup walks path from v. Object segments are field names, array
// segments are decimal indices.
func Lookup(v Value, path []string) (Value, error) {
	cur := v
	for i, seg := range path {
		switch cur.kind {
		case Object:
			next, ok := cur.Get(seg)
			if !ok {
				return Value{}, fmt.Errorf("key %q not found at segment %d", seg, i)
			}
			cur = next
		case Array:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return Value{}, fmt.Errorf("segment %d: %q is not an array index", i, seg)
			}
			next, ok := cur.Index(idx)
			if !ok {
				return Value{}, fmt.Errorf("segment %d: index %d out of range (len %d)", i, idx, len(cur.items))
			}
			cur = next
		default:
			return Value{}, fmt.Errorf("segment %d: cannot descend into %s", i, cur.kind)
		}
	}
	return cur, nil
}

// FromAny converts decoded Go data into a Value. Maps are ordered by
// sorted key since Go maps carry no order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberValue(float64(t)), nil
	case int8:
		return NumberValue(float64(t)), nil
	case int16:
		return NumberValue(float64(t)), nil
	case int32:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case uint:
		return NumberValue(float64(t)), nil
	case uint8:
		return NumberValue(float64(t)), nil
	case uint16:
		return NumberValue(float64(t)), nil
	case uint32:
		return NumberValue(float64(t)), nil
	case uint64:
		return NumberValue(float64(t)), nil
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number: %w", err)
		}
		return NumberValue(f), nil
	case time.Time:
		return StringValue(t.Format(time.RFC3339Nano)), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fv, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			fields = append(fields, Field{Key: k, Value: fv})
		}
		return Value{kind: Object, fields: fields}, nil
	case map[any]any:
		conv := make(map[string]any, len(t))
		for k, val := range t {
			conv[fmt.Sprint(k)] = val
		}
		return FromAny(conv)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			iv, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("element [%d]: %w", i, err)
			}
			items[i] = iv
		}
		return Value{kind: Array, items: items}, nil
	case []map[string]any:
		items := make([]Value, len(t))
		for i, e := range t {
			iv, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("element [%d]: %w", i, err)
			}
			items[i] = iv
		}
		return Value{kind: Array, items: items}, nil
	case fmt.Stringer:
		return StringValue(t.String()), nil
	default:
		return Value{}, fmt.Errorf("unsupported type %T", x)
	}
}

// MustFromAny is FromAny for literals in tests and examples; it panics on error.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

// ToAny converts v to plain Go values: nil, bool, float64, string,
// map[string]any and []any. Object key order is not preserved.
func ToAny(v Value) any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return v.n
	case String:
		return v.s
	case Object:
		m := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			m[f.Key] = ToAny(f.Value)
		}
		return m
	case Array:
		items := make([]any, len(v.items))
		for i, it := range v.items {
			items[i] = ToAny(it)
		}
		return items
	default:
		return nil
	}
}
