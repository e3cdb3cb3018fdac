package models

// Param is the parameter metadata of one property instance. Every
// property-derived entity carries a non-nil Param, possibly empty.
type Param struct {
	AltID     string        `json:"alt_id,omitempty"`
	Geo       string        `json:"geo,omitempty"`
	Label     string        `json:"label,omitempty"`
	Language  string        `json:"language,omitempty"`
	MediaType string        `json:"media_type,omitempty"`
	Pref      string        `json:"pref,omitempty"`
	SortAs    string        `json:"sort_as,omitempty"`
	Timezone  string        `json:"timezone,omitempty"`
	ValueType *Vocabulary   `json:"value_type,omitempty"`
	Types     []*Vocabulary `json:"types,omitempty"`
}

// HasType reports whether value is among the param's types.
func (p *Param) HasType(value string) bool {
	for _, t := range p.Types {
		if t.Value == value {
			return true
		}
	}
	return false
}
