package curseforge

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// parseInt accepts JSON numbers (truncated), booleans and decimal strings.
func parseInt(v any) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	case bool, float64, float32, int, int32, int64, uint32, uint64:
		n, err := cast.ToInt64E(t)
		return n, err == nil
	}
	return 0, false
}

func toInt64(v any) int64 {
	n, _ := parseInt(v)
	return n
}

func toOptionalInt64(v any) *int64 {
	if n, ok := parseInt(v); ok {
		return &n
	}
	return nil
}

func toOptionalBool(v any) *bool {
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case float64:
		b = t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			b = true
		case "false", "0", "no":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

func toBool(v any) bool {
	if b := toOptionalBool(v); b != nil {
		return *b
	}
	return false
}

// toString renders scalars as text; nil, objects and arrays become "".
func toString(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

func toOptionalString(v any) *string {
	if v == nil {
		return nil
	}
	s := toString(v)
	return &s
}

func toList(v any) []any {
	l, _ := v.([]any)
	return l
}

func toStringList(v any) []string {
	items := toList(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, toString(item))
	}
	return out
}

// mapList converts the object elements of items and skips everything else.
func mapList[T any](items []any, fn func(map[string]any) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, fn(m))
		}
	}
	return out
}
