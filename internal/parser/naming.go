package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize converts a snake_case or kebab-case schema identifier into an
// UpperCamelCase binding name. Each segment keeps only its first letter
// upper-cased; the rest is lower-cased regardless of the source casing.
func Normalize(raw string) string {
	segments := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var b strings.Builder
	b.Grow(len(raw))
	for _, seg := range segments {
		first, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(strings.ToLower(seg[size:]))
	}
	return b.String()
}

// IsValidIdentifier reports whether name can be used as a TypeScript type or value name
func IsValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}
