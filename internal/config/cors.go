// internal/config/cors.go
//
// BACKEND_CORS_ORIGINS wire-shape parsing.
//
// The variable accepts two shapes: a comma-separated scalar
// ("https://a.com, https://b.com") or a serialized JSON list
// ('["https://a.com"]').  parseCORSOrigins normalizes both to []string;
// per-element URL checks happen later, in validation, together with every
// other field rule.

package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// parseCORSOrigins normalizes a raw BACKEND_CORS_ORIGINS value:
//
//   - string starting with "[": decoded as a JSON list of strings,
//   - any other string: split on commas, pieces trimmed, empties dropped,
//   - existing list: passed through,
//   - anything else: an error carrying the offending value.
func parseCORSOrigins(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("origin list may contain only strings, got %T (%v)", e, e)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.HasPrefix(v, "[") {
			var list []string
			if err := json.Unmarshal([]byte(v), &list); err != nil {
				return nil, fmt.Errorf("invalid serialized origin list %q: %w", v, err)
			}
			return list, nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported origin value of type %T (%v)", raw, raw)
	}
}

// corsDecodeHook runs parseCORSOrigins while the merged tree is decoded, so
// string shapes arriving from the environment land as []string.
func corsDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf([]string(nil)) || from.Kind() != reflect.String {
		return data, nil
	}
	return parseCORSOrigins(data)
}
