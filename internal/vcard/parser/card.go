// Package parser is the tokenizer boundary: it turns normalized vCard text
// into a multimap of named, possibly repeating properties.
package parser

import (
	"strings"

	strutil "vcardimport/pkg/platform/strings"
)

// Property is one occurrence of a named property.
type Property struct {
	Name   string
	Group  string
	Value  string
	Params map[string][]string

	// escaped is the value with '\\', '\,' and '\;' escapes still in place.
	escaped string
}

// NewProperty builds a property. Parameter names are upper-cased.
func NewProperty(name, value string, params map[string][]string) *Property {
	p := &Property{
		Name:    strings.ToUpper(name),
		Value:   value,
		Params:  make(map[string][]string, len(params)),
		escaped: value,
	}
	for k, v := range params {
		p.Params[strings.ToUpper(k)] = append([]string(nil), v...)
	}
	return p
}

// newEscapedProperty builds a property from a value that still carries
// backslash escapes. Value holds the unescaped text.
func newEscapedProperty(name, escaped string, params map[string][]string) *Property {
	p := NewProperty(name, strutil.Unescape(escaped), params)
	p.escaped = escaped
	return p
}

// Components splits the value on every unescaped sep. Parts keep their
// escapes so they can be split again; see strutil.Unescape.
func (p *Property) Components(sep byte) []string {
	return strutil.SplitEscaped(p.escaped, sep)
}

// Escaped returns the value with its '\\', '\,' and '\;' escapes in place.
func (p *Property) Escaped() string {
	return p.escaped
}

// ParamValues returns every value of the named parameter.
func (p *Property) ParamValues(name string) []string {
	return p.Params[strings.ToUpper(name)]
}

// Param returns the named parameter with multiple values comma-joined, or ""
// when absent.
func (p *Property) Param(name string) string {
	return strings.Join(p.ParamValues(name), ",")
}

// WithParam returns a copy of p whose named parameter is replaced by values.
// p itself is left untouched.
func (p *Property) WithParam(name string, values ...string) *Property {
	clone := NewProperty(p.Name, p.Value, p.Params)
	clone.Group = p.Group
	clone.escaped = p.escaped
	clone.Params[strings.ToUpper(name)] = values
	return clone
}

// Card is a parsed document. Properties of one name keep their source order.
type Card struct {
	props map[string][]*Property
}

// NewCard returns an empty card.
func NewCard() *Card {
	return &Card{props: make(map[string][]*Property)}
}

// Add appends p to the occurrences of its name.
func (c *Card) Add(p *Property) {
	c.props[p.Name] = append(c.props[p.Name], p)
}

// Properties returns every occurrence of name, in source order.
func (c *Card) Properties(name string) []*Property {
	return c.props[strings.ToUpper(name)]
}

// First returns the first occurrence of name, or nil.
func (c *Card) First(name string) *Property {
	props := c.Properties(name)
	if len(props) == 0 {
		return nil
	}
	return props[0]
}

// Has reports whether name occurs at least once.
func (c *Card) Has(name string) bool {
	return len(c.Properties(name)) > 0
}
