package loader

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/oakwood-commons/kvtree/pkg/value"
)

func trimBearer(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "Bearer ")
	return strings.TrimSpace(input)
}

// IsJWT detects if input looks like a JWT token: exactly 3 dot-separated
// base64url parts whose first two decode to JSON objects.
func IsJWT(input string) bool {
	parts := strings.Split(trimBearer(input), ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}

	for i := 0; i < 2; i++ {
		decoded, err := base64.RawURLEncoding.DecodeString(parts[i])
		if err != nil {
			return false
		}
		if !gjson.ValidBytes(decoded) || !gjson.ParseBytes(decoded).IsObject() {
			return false
		}
	}

	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT splits and decodes a JWT token into an object with header,
// payload and signature fields in that order. Claims keep their encoded
// order. The signature stays base64url text.
func DecodeJWT(input string) (value.Value, error) {
	parts := strings.Split(trimBearer(input), ".")
	if len(parts) != 3 {
		return value.Value{}, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}

	header, err := decodeJWTPart("header", parts[0])
	if err != nil {
		return value.Value{}, err
	}
	payload, err := decodeJWTPart("payload", parts[1])
	if err != nil {
		return value.Value{}, err
	}

	return value.ObjectValue(
		value.F("header", header),
		value.F("payload", payload),
		value.F("signature", value.StringValue(parts[2])),
	), nil
}

func decodeJWTPart(name, part string) (value.Value, error) {
	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid JWT %s: %w", name, err)
	}
	r := gjson.ParseBytes(raw)
	if !gjson.ValidBytes(raw) || !r.IsObject() {
		return value.Value{}, fmt.Errorf("invalid JWT %s JSON: not an object", name)
	}
	return fromGJSON(r), nil
}

func loadJWT(input string) ([]value.Value, error) {
	decoded, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []value.Value{decoded}, nil
}
