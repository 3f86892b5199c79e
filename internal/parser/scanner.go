package parser

import "strings"

// entry is a `key: { ... }` occurrence with a balanced body
type entry struct {
	Key  string
	Body string // text between the braces, exclusive
}

// field is a top-level member of an object type literal
type field struct {
	Key   string
	Value string
}

// walkEntries visits every `key: {...}` entry in src from left to right.
// When visit returns true the entry's body is skipped, otherwise the
// scan continues inside it so nested entries are found too.
func walkEntries(src string, visit func(e entry) bool) {
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isCommentStart(src, i):
			i = skipComment(src, i)
		case c == '"' || c == '\'' || c == '`':
			key, next, ok := readKey(src, i)
			if !ok {
				i = skipString(src, i)
				continue
			}
			i = tryEntry(src, key, next, visit)
		case isIdentChar(c):
			key, next, _ := readKey(src, i)
			i = tryEntry(src, key, next, visit)
		default:
			i++
		}
	}
}

// tryEntry checks whether the key ending at next starts an entry and returns
// the position the scan resumes from
func tryEntry(src, key string, next int, visit func(e entry) bool) int {
	open, ok := entryOpen(src, next)
	if !ok {
		return next
	}

	closeIdx, ok := matchBrace(src, open)
	if !ok {
		// Unterminated body, keep scanning inside it
		return open + 1
	}

	if visit(entry{Key: key, Body: src[open+1 : closeIdx]}) {
		return closeIdx + 1
	}
	return open + 1
}

// entryOpen reports the index of the `{` when src[i:] continues a key with `?: {` or `: {`
func entryOpen(src string, i int) (int, bool) {
	j, ok := expectColon(src, i)
	if !ok {
		return 0, false
	}
	j = skipTrivia(src, j)
	if j < len(src) && src[j] == '{' {
		return j, true
	}
	return 0, false
}

// expectColon skips trivia and an optional `?`, then expects `:`.
// It returns the index just past the colon.
func expectColon(src string, i int) (int, bool) {
	j := skipTrivia(src, i)
	if j < len(src) && src[j] == '?' {
		j = skipTrivia(src, j+1)
	}
	if j < len(src) && src[j] == ':' {
		return j + 1, true
	}
	return 0, false
}

// matchBrace returns the index of the `}` closing the `{` at open
func matchBrace(src string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); {
		switch c := src[i]; {
		case isCommentStart(src, i):
			i = skipComment(src, i)
			continue
		case c == '"' || c == '\'' || c == '`':
			i = skipString(src, i)
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
		i++
	}
	return 0, false
}

// topLevelFields splits an object type body into its depth-0 members.
// Index signatures and anything that is not `key: value` are skipped.
func topLevelFields(body string) []field {
	var fields []field
	i := 0
	for {
		i = skipSeparators(body, i)
		if i >= len(body) {
			break
		}
		from := i

		key, next, ok := readKey(body, i)
		if !ok {
			i = skipValue(body, i)
		} else if colon, ok := expectColon(body, next); !ok {
			i = skipValue(body, next)
		} else {
			start := skipTrivia(body, colon)
			end := skipValue(body, start)
			fields = append(fields, field{Key: key, Value: strings.TrimSpace(body[start:end])})
			i = end
		}

		// a stray closer at depth 0 yields no progress
		if i <= from {
			i = from + 1
		}
	}
	return fields
}

// skipValue returns the end of the type expression starting at i. The value
// ends at a depth-0 `;` or `,`, at a newline followed by another member, or
// where an unmatched closer appears.
func skipValue(s string, i int) int {
	depth := 0
	start := i
	for i < len(s) {
		c := s[i]
		switch {
		case isCommentStart(s, i):
			i = skipComment(s, i)
			continue
		case c == '"' || c == '\'' || c == '`':
			i = skipString(s, i)
			continue
		case c == '=' && i+1 < len(s) && s[i+1] == '>':
			// arrow in a function type, not a generic closer
			i += 2
			continue
		case c == '{' || c == '[' || c == '(' || c == '<':
			depth++
		case c == '}' || c == ']' || c == ')' || c == '>':
			depth--
			if depth < 0 {
				return i
			}
		case depth == 0 && (c == ';' || c == ','):
			if i == start {
				return i + 1
			}
			return i
		case depth == 0 && c == '\n' && i > start:
			if startsMember(s, i) {
				return i
			}
		}
		i++
	}
	return i
}

// startsMember reports whether the next token after i is `key:` or `key?:`
func startsMember(s string, i int) bool {
	j := skipTrivia(s, i)
	_, next, ok := readKey(s, j)
	if !ok {
		return false
	}
	_, ok = expectColon(s, next)
	return ok
}

// readKey reads an identifier or quoted string key at i
func readKey(s string, i int) (string, int, bool) {
	if i >= len(s) {
		return "", i, false
	}
	switch c := s[i]; {
	case c == '"' || c == '\'':
		end := skipString(s, i)
		if end > len(s) || end-i < 2 || s[end-1] != c {
			return "", end, false
		}
		return unescape(s[i+1 : end-1]), end, true
	case isIdentChar(c):
		j := i
		for j < len(s) && isIdentChar(s[j]) {
			j++
		}
		return s[i:j], j, true
	}
	return "", i, false
}

// skipString returns the index just past the string literal starting at i
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(s)
}

func isCommentStart(s string, i int) bool {
	return s[i] == '/' && i+1 < len(s) && (s[i+1] == '/' || s[i+1] == '*')
}

// skipComment returns the index just past the comment starting at i
func skipComment(s string, i int) int {
	if s[i+1] == '/' {
		if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
			return i + nl
		}
		return len(s)
	}
	if end := strings.Index(s[i+2:], "*/"); end >= 0 {
		return i + 2 + end + 2
	}
	return len(s)
}

// skipTrivia skips whitespace and comments
func skipTrivia(s string, i int) int {
	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r':
			i++
		case isCommentStart(s, i):
			i = skipComment(s, i)
		default:
			return i
		}
	}
	return i
}

// skipSeparators skips trivia together with member separators
func skipSeparators(s string, i int) int {
	for {
		i = skipTrivia(s, i)
		if i < len(s) && (s[i] == ';' || s[i] == ',') {
			i++
			continue
		}
		return i
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
