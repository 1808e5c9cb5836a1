// Package casing converts record keys between the storage convention
// (snake_case) and the application convention (camelCase).
package casing

import (
	"regexp"
	"strings"
)

var (
	snakeSegment = regexp.MustCompile(`_([a-z])`)
	upperLetter  = regexp.MustCompile(`[A-Z]`)
)

// CamelKey turns "apply_deadline" into "applyDeadline". Underscores not
// followed by a lowercase letter are kept.
func CamelKey(key string) string {
	return snakeSegment.ReplaceAllStringFunc(key, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// SnakeKey turns "applyDeadline" into "apply_deadline".
func SnakeKey(key string) string {
	return upperLetter.ReplaceAllStringFunc(key, func(m string) string {
		return "_" + strings.ToLower(m)
	})
}

// ToCamel returns a copy of record with every key, including keys of nested
// maps, converted to camelCase. Slices are carried over as they are.
func ToCamel(record map[string]any) map[string]any {
	return convert(record, CamelKey)
}

// ToSnake is the inverse of ToCamel.
func ToSnake(record map[string]any) map[string]any {
	return convert(record, SnakeKey)
}

func convert(record map[string]any, rename func(string) string) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		if nested, ok := v.(map[string]any); ok {
			v = convert(nested, rename)
		}
		out[rename(k)] = v
	}
	return out
}
