package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvtree/pkg/value"
)

const maxAliasDepth = 64

// fromYAML converts a decoded node tree. Mapping keys keep their source
// order; timestamps and binary scalars are kept as their literal text.
func fromYAML(n *yaml.Node) (value.Value, error) {
	return convertYAML(n, 0)
}

func convertYAML(n *yaml.Node, aliases int) (value.Value, error) {
	if n == nil {
		return value.NullValue(), nil
	}
	switch n.Kind {
	case 0:
		return value.NullValue(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.NullValue(), nil
		}
		return convertYAML(n.Content[0], aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return value.Value{}, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return convertYAML(n.Alias, aliases+1)
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for i, c := range n.Content {
			item, err := convertYAML(c, aliases)
			if err != nil {
				return value.Value{}, fmt.Errorf("element [%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return value.ArrayValue(items...), nil
	case yaml.MappingNode:
		return convertMapping(n, aliases)
	case yaml.ScalarNode:
		return convertScalar(n)
	}
	return value.Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func convertMapping(n *yaml.Node, aliases int) (value.Value, error) {
	fields := make([]value.Field, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merged, err := convertYAML(v, aliases)
			if err != nil {
				return value.Value{}, err
			}
			if merged.Kind() == value.Array {
				for _, m := range merged.Items() {
					fields = append(fields, m.Fields()...)
				}
				continue
			}
			fields = append(fields, merged.Fields()...)
			continue
		}
		key := k.Value
		if k.Kind != yaml.ScalarNode {
			return value.Value{}, fmt.Errorf("line %d: non-scalar mapping key", k.Line)
		}
		item, err := convertYAML(v, aliases)
		if err != nil {
			return value.Value{}, fmt.Errorf("key %q: %w", key, err)
		}
		fields = append(fields, value.F(key, item))
	}
	return value.ObjectValue(fields...), nil
}

func convertScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.BoolValue(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.NumberValue(f), nil
	default:
		return value.StringValue(n.Value), nil
	}
}
