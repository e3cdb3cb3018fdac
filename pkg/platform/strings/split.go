// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitNonEmpty splits s on sep and drops empty tokens. Tokens are not
// trimmed; order is preserved.
//
// Example:
//
//	SplitNonEmpty("work,,home", ",")
//	// Returns: []string{"work", "home"}
func SplitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		result = append(result, p)
	}
	return result
}

// SplitSet splits every value on sep, drops empty tokens and removes
// duplicates. Order of first occurrence is preserved.
//
// Example:
//
//	SplitSet([]string{"work,home", "work", ""}, ",")
//	// Returns: []string{"work", "home"}
func SplitSet(values []string, sep string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	var result []string
	for _, v := range values {
		for _, token := range SplitNonEmpty(v, sep) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			result = append(result, token)
		}
	}
	return result
}

// SplitEscaped splits s on every sep that is not preceded by a backslash.
// Escape sequences are kept in the returned parts; pass each part through
// Unescape once no further splitting is needed.
//
// Example:
//
//	SplitEscaped(`a\,b,c`, ',')
//	// Returns: []string{`a\,b`, "c"}
func SplitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// SplitEscapedNonEmpty is SplitEscaped followed by Unescape, dropping empty
// tokens.
func SplitEscapedNonEmpty(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	parts := SplitEscaped(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		result = append(result, Unescape(p))
	}
	return result
}

var unescaper = strings.NewReplacer(`\\`, `\`, `\,`, ",", `\;`, ";")

// Unescape resolves backslash escapes of '\\', ',' and ';'. Other sequences
// are left as they are.
func Unescape(s string) string {
	return unescaper.Replace(s)
}
