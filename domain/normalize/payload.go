// Package normalize converts the loosely-shaped payloads returned by the
// remote personal-data service into canonical domain records. Every
// function here is total: malformed input degrades to defaults or empty
// results, never to an error or panic.
package normalize

import (
	"strconv"
	"strings"
)

// IsBlank reports whether a raw value is structurally absent. The upstream
// AI service sometimes returns the literal strings "null" or "undefined"
// where an actual null belongs, so those sentinels count as absent too.
func IsBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	switch strings.ToLower(s) {
	case "null", "undefined", "none", "n/a":
		return true
	}
	return false
}

// asMap returns v as a JSON object, when it is one.
func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// asList returns v as a JSON array, when it is one.
func asList(v interface{}) ([]interface{}, bool) {
	l, ok := v.([]interface{})
	return l, ok
}

// stringField returns the first non-blank string value among the given
// key aliases, or "".
func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || IsBlank(v) {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// rawField returns the first present, non-blank value among the given key
// aliases.
func rawField(m map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && !IsBlank(v) {
			return v, true
		}
	}
	return nil, false
}

// listField returns the first array value among the given key aliases.
func listField(m map[string]interface{}, keys ...string) ([]interface{}, bool) {
	for _, k := range keys {
		if l, ok := asList(m[k]); ok {
			return l, true
		}
	}
	return nil, false
}

// numberField resolves the first numeric-looking value among the given
// key aliases; strings are parsed with the given fallback parser.
func numberField(m map[string]interface{}, parse func(string) float64, keys ...string) (float64, bool) {
	v, ok := rawField(m, keys...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
		return parse(n), true
	}
	return 0, false
}

// intField resolves the first whole-number value among the given key
// aliases, tolerating numeric strings.
func intField(m map[string]interface{}, keys ...string) (int, bool) {
	v, ok := rawField(m, keys...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// boolField resolves the first boolean-looking value among the given key
// aliases.
func boolField(m map[string]interface{}, keys ...string) bool {
	v, ok := rawField(m, keys...)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	case float64:
		return b != 0
	}
	return false
}

// stringsField converts an array field to a cleaned string slice,
// preserving order and dropping blank or sentinel entries.
func stringsField(m map[string]interface{}, keys ...string) []string {
	l, ok := listField(m, keys...)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(l))
	for _, v := range l {
		if IsBlank(v) {
			continue
		}
		if s, ok := v.(string); ok {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// ExtractRecordID digs the identifier of a freshly-created record out of
// a mutation response, tolerating the same wrapper conventions as the
// note collection. Returns "" when no identifier is found.
func ExtractRecordID(payload interface{}) string {
	m, ok := asMap(payload)
	if !ok {
		return ""
	}
	idKeys := []string{"id", "_id", "recordId", "record_id", "courseId", "curso_id"}
	if id := stringField(m, idKeys...); id != "" {
		return id
	}
	for _, wrapper := range recordWrapperKeys {
		if inner, ok := asMap(m[wrapper]); ok {
			if id := stringField(inner, idKeys...); id != "" {
				return id
			}
		}
	}
	return ""
}

// structurallyEmpty reports whether a value contains no usable information
// at any depth, per the emptiness policy of IsBlank.
func structurallyEmpty(v interface{}) bool {
	if IsBlank(v) {
		return true
	}
	if m, ok := asMap(v); ok {
		for _, mv := range m {
			if !structurallyEmpty(mv) {
				return false
			}
		}
		return true
	}
	if l, ok := asList(v); ok {
		for _, lv := range l {
			if !structurallyEmpty(lv) {
				return false
			}
		}
		return true
	}
	return false
}
