// Package normalize cleans raw vCard text before tokenization.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// BeginMarker must open every document.
const BeginMarker = "BEGIN:"

var (
	codePointEscape = regexp.MustCompile(`<[uU]\+([0-9A-Fa-f]{4})>`)
	indentedBreak   = regexp.MustCompile(`\n\s+`)
)

// Normalize returns text ready for the property parser, or "" when text does
// not start with BeginMarker.
//
// `<U+hhhh>` escapes become the code point they name, and every line break
// followed by whitespace is collapsed to a break plus one space so that
// over-indented continuation lines still unfold.
func Normalize(text string) string {
	if !strings.HasPrefix(text, BeginMarker) {
		return ""
	}

	text = codePointEscape.ReplaceAllStringFunc(text, func(m string) string {
		cp, err := strconv.ParseUint(m[3:7], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(cp))
	})

	return indentedBreak.ReplaceAllString(text, "\n ")
}
