// Package apiutil has small helpers for pulling typed values out of the
// generic JSON maps returned by provider APIs.
package apiutil

// Str returns m[key] as a string, or "" when absent or not a string.
func Str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Int returns m[key] as an int. JSON numbers decode as float64.
func Int(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Int64 returns m[key] as an int64.
func Int64(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// Bool returns m[key] as a bool, or false.
func Bool(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// Map returns m[key] as a nested map, or nil.
func Map(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

// List returns m[key] as a slice of maps, skipping non-map elements.
func List(m map[string]any, key string) []map[string]any {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if em, isMap := el.(map[string]any); isMap {
			out = append(out, em)
		}
	}
	return out
}

// StrList returns m[key] as a slice of strings, skipping non-string elements.
func StrList(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, el := range raw {
		if s, isStr := el.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}

// StrOr returns m[key] as a string, or fallback when empty.
func StrOr(m map[string]any, key, fallback string) string {
	if s := Str(m, key); s != "" {
		return s
	}
	return fallback
}
