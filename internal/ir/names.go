package ir

import (
	"strings"
	"unicode"
)

// PascalCase renders a proto identifier (snake_case or already-camel) as an
// UpperCamelCase TypeScript identifier, used for message, enum, and
// interface names (spec.md §4.D).
func PascalCase(protoName string) string {
	parts := splitParts(protoName)
	if len(parts) == 0 {
		return ""
	}
	for i := range parts {
		parts[i] = title(parts[i])
	}
	return strings.Join(parts, "")
}

// CamelCase renders a proto identifier as a lowerCamelCase TypeScript
// identifier, used for field and property names (spec.md invariant 3:
// "Field names are camelCased in emitted code regardless of snake_case
// origin").
func CamelCase(protoName string) string {
	parts := splitParts(protoName)
	if len(parts) == 0 {
		return ""
	}
	first := []rune(parts[0])
	first[0] = unicode.ToLower(first[0])
	parts[0] = string(first)
	for i := 1; i < len(parts); i++ {
		parts[i] = title(parts[i])
	}
	return strings.Join(parts, "")
}

func splitParts(name string) []string {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, "_-") {
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '_' || r == '-'
		})
		for i := range parts {
			parts[i] = strings.ToLower(parts[i])
		}
		return parts
	}
	return []string{name}
}

func title(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
