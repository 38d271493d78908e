package layout

import (
	"strconv"
	"strings"
)

// Field is one decoded field entry. The legacy format is loosely typed, so
// values are read through tolerant accessors.
type Field struct {
	Kind FieldKind
	data map[string]any
}

// NewField builds a field from decoded JSON.
func NewField(kind FieldKind, data map[string]any) Field {
	if data == nil {
		data = map[string]any{}
	}
	return Field{Kind: kind, data: data}
}

// Value returns the main scalar value.
func (f Field) Value() string { return toString(f.data["value"]) }

// Str returns the first non-empty scalar among keys.
func (f Field) Str(keys ...string) string { return Row(f.data).Text(keys...) }

// Int returns the first key holding a number.
func (f Field) Int(keys ...string) int { return Row(f.data).Int(keys...) }

// Settings returns the per-field settings.
func (f Field) Settings() Settings { return Settings(asMap(f.data["settings"])) }

// Rows returns the repeater rows of the field, read from "rows", "images",
// "items" or a list-valued "value".
func (f Field) Rows() []Row {
	for _, key := range []string{"rows", "images", "items", "value"} {
		list, ok := f.data[key].([]any)
		if !ok {
			continue
		}
		rows := make([]Row, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, Row(m))
			}
		}
		return rows
	}
	return nil
}

// IsList reports whether the field carries repeater data.
func (f Field) IsList() bool {
	for _, key := range []string{"rows", "images", "items", "value"} {
		if _, ok := f.data[key].([]any); ok {
			return true
		}
	}
	return false
}

// Row is one repeater row. Sub-fields are either scalars or objects holding
// "value" or "url".
type Row map[string]any

// Text returns the first non-empty scalar among keys.
func (r Row) Text(keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(toString(r[k])); s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first key holding a number.
func (r Row) Int(keys ...string) int {
	for _, k := range keys {
		if n := toInt(r[k]); n != 0 {
			return n
		}
	}
	return 0
}

// Settings is a free-form settings object.
type Settings map[string]any

// Str returns the first non-empty setting among keys.
func (s Settings) Str(keys ...string) string { return Row(s).Text(keys...) }

// Bool reports whether any of keys holds a truthy value.
func (s Settings) Bool(keys ...string) bool {
	for _, k := range keys {
		switch v := s[k].(type) {
		case bool:
			if v {
				return true
			}
		case int64:
			if v != 0 {
				return true
			}
		case float64:
			if v != 0 {
				return true
			}
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "1", "true", "yes", "on":
				return true
			}
		}
	}
	return false
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		for _, k := range []string{"value", "url", "src"} {
			if s := toString(t[k]); s != "" {
				return s
			}
		}
	}
	return ""
}

func toInt(v any) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	case float64:
		return int(t)
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimSuffix(strings.TrimSuffix(s, "px"), "%")
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	case map[string]any:
		return toInt(t["value"])
	}
	return 0
}
