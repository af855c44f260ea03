// Package jsonutil provides the JSON helpers used for stored section fields:
// error wrapping, loose value conversion, and string-map encoding.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// ToString converts a decoded JSON value to a string.
// Whole numbers are formatted without a fractional part; nil becomes "".
func ToString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

// DecodeStringMap decodes a JSON object into a string map, converting
// non-string values with ToString. Empty input yields an empty map.
func DecodeStringMap(data []byte, context string) (map[string]string, error) {
	out := make(map[string]string)
	if len(data) == 0 {
		return out, nil
	}
	var raw map[string]any
	if err := UnmarshalWithContext(data, &raw, context); err != nil {
		return nil, err
	}
	for k, v := range raw {
		out[k] = ToString(v)
	}
	return out, nil
}

// EncodeStringMap encodes m as a JSON object; nil encodes as "{}".
func EncodeStringMap(m map[string]string) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}
