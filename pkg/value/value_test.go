package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "boolean", Bool.String())
	assert.Equal(t, "number", Number.String())
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "array", Array.String())
	assert.True(t, String.IsScalar())
	assert.False(t, Array.IsScalar())
}

func TestObjectValueKeepsInsertionOrder(t *testing.T) {
	v := ObjectValue(F("z", NumberValue(1)), F("a", NumberValue(2)), F("m", NumberValue(3)))
	fields := v.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{fields[0].Key, fields[1].Key, fields[2].Key})
}

func TestObjectValueDuplicateKeyReplacesInPlace(t *testing.T) {
	v := ObjectValue(F("a", NumberValue(1)), F("b", NumberValue(2)), F("a", NumberValue(3)))
	require.Equal(t, 2, v.Len())
	got, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, float64(3), got.AsNumber())
	assert.Equal(t, "a", v.Fields()[0].Key)
}

func TestFieldsReturnsCopy(t *testing.T) {
	v := ObjectValue(F("a", NumberValue(1)))
	fields := v.Fields()
	fields[0].Key = "mutated"
	assert.Equal(t, "a", v.Fields()[0].Key)
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"null", NullValue(), "null"},
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"integer", NumberValue(42), "42"},
		{"fraction", NumberValue(1.5), "1.5"},
		{"negative", NumberValue(-3), "-3"},
		{"large exponent", NumberValue(1e21), "1e+21"},
		{"nan", NumberValue(math.NaN()), "null"},
		{"string", StringValue("hi"), `"hi"`},
		{"string with quote", StringValue(`a"b`), `"a\"b"`},
		{"string not html escaped", StringValue("<b>&"), `"<b>&"`},
		{"empty object", ObjectValue(), "{}"},
		{"empty array", ArrayValue(), "[]"},
		{"ordered object", ObjectValue(F("b", NumberValue(1)), F("a", NullValue())), `{"b":1,"a":null}`},
		{"array", ArrayValue(NumberValue(1), StringValue("x")), `[1,"x"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.in))
		})
	}
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b":    []any{1, "two", nil},
		"a":    true,
		"when": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, Object, v.Kind())

	fields := v.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key, "map keys are sorted")
	assert.Equal(t, "b", fields[1].Key)

	arr := fields[1].Value
	require.Equal(t, Array, arr.Kind())
	assert.Equal(t, 3, arr.Len())
	first, _ := arr.Index(0)
	assert.Equal(t, float64(1), first.AsNumber())

	when := fields[2].Value
	assert.Equal(t, "2024-01-02T03:04:05Z", when.AsString())
}

func TestFromAnyUnsupported(t *testing.T) {
	_, err := FromAny(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "ch"`)
}

func TestLookup(t *testing.T) {
	root := MustFromAny(map[string]any{
		"items": []any{map[string]any{"name": "alpha"}},
	})

	got, err := Lookup(root, []string{"items", "0", "name"})
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.AsString())

	_, err = Lookup(root, []string{"items", "3"})
	require.Error(t, err)

	_, err = Lookup(root, []string{"items", "x"})
	require.Error(t, err)

	_, err = Lookup(root, []string{"missing"})
	require.Error(t, err)

	same, err := Lookup(root, nil)
	require.NoError(t, err)
	assert.True(t, same.Equal(root))
}

func TestEqual(t *testing.T) {
	a := ObjectValue(F("x", ArrayValue(NumberValue(1))))
	b := ObjectValue(F("x", ArrayValue(NumberValue(1))))
	c := ObjectValue(F("x", ArrayValue(NumberValue(2))))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, NullValue().Equal(BoolValue(false)))
}

func TestToAny(t *testing.T) {
	v := ObjectValue(
		F("n", NullValue()),
		F("b", BoolValue(true)),
		F("list", ArrayValue(NumberValue(1), StringValue("x"))),
		F("obj", ObjectValue()),
	)
	assert.Equal(t, map[string]any{
		"n":    nil,
		"b":    true,
		"list": []any{1.0, "x"},
		"obj":  map[string]any{},
	}, ToAny(v))

	back, err := FromAny(ToAny(v))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "list", "n", "obj"}, keysOf(back))
}

func keysOf(v Value) []string {
	var out []string
	for _, f := range v.Fields() {
		out = append(out, f.Key)
	}
	return out
}
