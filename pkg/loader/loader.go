// Package loader parses serialized documents into ordered value.Value
// trees. JSON, YAML, TOML, NDJSON and JWT inputs are detected
// automatically.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvtree/pkg/value"
)

var (
	tomlSectionPattern  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// LoadData loads structured data from a string, auto-detecting format.
// Detection order:
//   - JWT tokens (3 dot-separated base64url parts)
//   - multi-document YAML (separated by ---)
//   - newline-delimited JSON
//   - TOML
//   - a single JSON object or array
//   - a single YAML document
//
// Every format returns one value per document. Object fields keep their
// document order, except for TOML whose decoder does not expose it.
func LoadData(input string) ([]value.Value, error) {
	input = normalizeNewlines(strings.TrimSpace(input))
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	if IsJWT(input) {
		return loadJWT(input)
	}

	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return loadMultiDocYAML(input)
	}

	if lines := strings.Split(input, "\n"); len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(input)
	}

	// TOML [section] headers look like JSON arrays, so test TOML first.
	if isLikelyTOML(input) {
		return loadTOML(input)
	}

	if (strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[")) && validJSON(input) {
		return loadJSON(input)
	}

	return loadYAML(input)
}

// LoadRoot parses input into a single root value. Multi-document inputs
// are returned as an array of documents.
func LoadRoot(input string) (value.Value, error) {
	results, err := LoadData(input)
	if err != nil {
		return value.Value{}, err
	}
	return rootOf(results), nil
}

// LoadRootBytes parses input bytes into a single root value.
func LoadRootBytes(data []byte) (value.Value, error) {
	return LoadRoot(string(data))
}

// LoadReader reads r to the end and parses it into a single root value.
func LoadReader(r io.Reader) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return value.Value{}, fmt.Errorf("read input: %w", err)
	}
	return LoadRootBytes(data)
}

// LoadFile reads a file and parses it into a single root value. A known
// extension selects the parser; if that parser fails the content is
// auto-detected instead.
func LoadFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	input := normalizeNewlines(strings.TrimSpace(string(data)))
	if input == "" {
		return value.Value{}, fmt.Errorf("%s: empty input", path)
	}

	if parse := parserForExt(filepath.Ext(path)); parse != nil {
		if results, err := parse(input); err == nil {
			return rootOf(results), nil
		}
	}
	root, err := LoadRoot(input)
	if err != nil {
		return value.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// LoadObject accepts an already parsed object. Strings and byte slices
// are parsed with format detection; plain Go values are converted with
// value.FromAny.
func LoadObject(obj any) (value.Value, error) {
	if obj == nil {
		return value.Value{}, fmt.Errorf("object input is nil")
	}

	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return value.Value{}, fmt.Errorf("object input is nil")
		}
	}

	switch v := obj.(type) {
	case value.Value:
		return v, nil
	case string:
		return LoadRoot(v)
	case []byte:
		return LoadRootBytes(v)
	}
	if out, err := value.FromAny(obj); err == nil {
		return out, nil
	}
	// Structs and typed pointers go through their JSON encoding, which
	// honors struct tags and keeps field declaration order.
	data, err := json.Marshal(obj)
	if err != nil {
		return value.Value{}, fmt.Errorf("cannot marshal custom type to JSON: %w", err)
	}
	return parseJSON(string(data)), nil
}

func rootOf(results []value.Value) value.Value {
	if len(results) == 1 {
		return results[0]
	}
	return value.ArrayValue(results...)
}

func parserForExt(ext string) func(string) ([]value.Value, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return loadJSON
	case ".yaml", ".yml":
		return loadMultiDocYAML
	case ".toml":
		return loadTOML
	case ".ndjson", ".jsonl":
		return loadNDJSON
	case ".jwt":
		return loadJWT
	}
	return nil
}

// normalizeNewlines turns CRLF and lone CR into LF. CLI tools emit \r to
// redraw progress lines, which otherwise glue records together.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func loadYAML(input string) ([]value.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(input), &node); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	v, err := fromYAML(&node)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []value.Value{v}, nil
}

func loadMultiDocYAML(input string) ([]value.Value, error) {
	var results []value.Value
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		doc, err := fromYAML(&node)
		if err != nil {
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if !doc.IsNull() {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON parses one JSON value per line. Lines that are not valid
// JSON are kept as plain strings.
func loadNDJSON(input string) ([]value.Value, error) {
	lines := strings.Split(normalizeNewlines(input), "\n")
	results := make([]value.Value, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !validJSON(line) {
			results = append(results, value.StringValue(line))
			continue
		}
		results = append(results, parseJSON(line))
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON reports whether a majority of the non-empty lines start
// with '{' or '['. Bare YAML list items never count.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// isLikelyTOML reports whether input has a TOML section header, or a
// majority of "key = value" lines.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++

		// Indented brackets belong to YAML block scalars, not TOML tables.
		if line == strings.TrimLeft(line, " \t") && tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

func loadTOML(input string) ([]value.Value, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	v, err := value.FromAny(data)
	if err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []value.Value{v}, nil
}
