package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emersion/go-vcard"
)

// ErrMalformed is returned when text cannot be tokenized.
var ErrMalformed = errors.New("malformed vcard")

// Parser tokenizes normalized text into a Card.
type Parser interface {
	Parse(text string) (*Card, error)
}

// Reader is the default Parser, backed by go-vcard. Only the first card of
// the document is read.
type Reader struct{}

// NewReader returns a go-vcard backed Parser.
func NewReader() *Reader {
	return &Reader{}
}

// Parse reads the first card in text.
func (r *Reader) Parse(text string) (*Card, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	raw, err := vcard.NewDecoder(strings.NewReader(protectEscapes(text))).Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	card := NewCard()
	for name, fields := range raw {
		for _, f := range fields {
			if f == nil {
				continue
			}
			p := newEscapedProperty(name, restoreEscapes(f.Value), restoreParams(f.Params))
			p.Group = f.Group
			card.Add(p)
		}
	}
	return card, nil
}

// go-vcard resolves '\\' and '\,' itself, which loses the difference between
// a literal and a separating comma. These escapes are swapped for
// private-use runes before decoding and put back afterwards.
const (
	protectedBackslash = '\uE000'
	protectedComma     = '\uE001'
	protectedSemicolon = '\uE002'
)

func protectEscapes(text string) string {
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' || i+1 == len(text) {
			b.WriteByte(text[i])
			continue
		}
		switch text[i+1] {
		case '\\':
			b.WriteRune(protectedBackslash)
		case ',':
			b.WriteRune(protectedComma)
		case ';':
			b.WriteRune(protectedSemicolon)
		default:
			b.WriteByte(text[i])
			continue
		}
		i++
	}
	return b.String()
}

var (
	escapeRestorer = strings.NewReplacer(
		string(protectedBackslash), `\\`,
		string(protectedComma), `\,`,
		string(protectedSemicolon), `\;`,
	)
	literalRestorer = strings.NewReplacer(
		string(protectedBackslash), `\`,
		string(protectedComma), ",",
		string(protectedSemicolon), ";",
	)
)

func restoreEscapes(value string) string {
	return escapeRestorer.Replace(value)
}

func restoreParams(params vcard.Params) map[string][]string {
	out := make(map[string][]string, len(params))
	for k, values := range params {
		restored := make([]string, len(values))
		for i, v := range values {
			restored[i] = literalRestorer.Replace(v)
		}
		out[k] = restored
	}
	return out
}
