package loader

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/oakwood-commons/kvtree/pkg/value"
)

func validJSON(input string) bool {
	return gjson.Valid(input)
}

// loadJSON parses a single JSON document. gjson walks objects in source
// order, which keeps field order intact.
func loadJSON(input string) ([]value.Value, error) {
	if !gjson.Valid(input) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return []value.Value{parseJSON(input)}, nil
}

// parseJSON converts already validated JSON text.
func parseJSON(input string) value.Value {
	return fromGJSON(gjson.Parse(input))
}

func fromGJSON(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.NullValue()
	case gjson.False:
		return value.BoolValue(false)
	case gjson.True:
		return value.BoolValue(true)
	case gjson.Number:
		return value.NumberValue(r.Num)
	case gjson.String:
		return value.StringValue(r.Str)
	}

	if r.IsArray() {
		var items []value.Value
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromGJSON(item))
			return true
		})
		return value.ArrayValue(items...)
	}
	var fields []value.Field
	r.ForEach(func(key, item gjson.Result) bool {
		fields = append(fields, value.F(key.String(), fromGJSON(item)))
		return true
	})
	return value.ObjectValue(fields...)
}
