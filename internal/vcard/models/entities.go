package models

import "github.com/google/uuid"

// Entry is the plain value entity: one raw property value and its params.
type Entry struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
	Param *Param    `json:"param"`
}

// NewEntry builds an Entry with a fresh ID.
func NewEntry(value string, param *Param) *Entry {
	return &Entry{ID: uuid.New(), Value: value, Param: param}
}

// TypedEntry is an Entry tagged with Type vocabulary (TEL, RELATED).
type TypedEntry struct {
	Entry
	Types []*Vocabulary `json:"types"`
}

// NameComponent is one comma-separated value of an N slot.
type NameComponent struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

// Name is the structured N property.
type Name struct {
	ID              uuid.UUID        `json:"id"`
	Param           *Param           `json:"param"`
	FamilyNames     []*NameComponent `json:"family_names"`
	GivenNames      []*NameComponent `json:"given_names"`
	AdditionalNames []*NameComponent `json:"additional_names"`
	Prefixes        []*NameComponent `json:"prefixes"`
	Suffixes        []*NameComponent `json:"suffixes"`
}

// NicknameValue is one comma-separated value of a NICKNAME occurrence.
type NicknameValue struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

// Nickname is one NICKNAME occurrence.
type Nickname struct {
	ID     uuid.UUID        `json:"id"`
	Param  *Param           `json:"param"`
	Values []*NicknameValue `json:"values"`
}

// Gender holds the sex component and free-text identity comment.
// Value is nil when the source value is outside the gender vocabulary.
type Gender struct {
	ID      uuid.UUID   `json:"id"`
	Value   *Vocabulary `json:"value,omitempty"`
	Comment string      `json:"comment"`
	Param   *Param      `json:"param"`
}

// Address is one ADR occurrence. Street is the newline-joined non-empty
// subset of POBox, Extended and StreetAddress.
type Address struct {
	ID            uuid.UUID `json:"id"`
	Param         *Param    `json:"param"`
	POBox         string    `json:"po_box"`
	Extended      string    `json:"extended"`
	StreetAddress string    `json:"street_address"`
	Street        string    `json:"street"`
	Locality      string    `json:"locality"`
	Region        string    `json:"region"`
	PostalCode    string    `json:"postal_code"`
	Country       string    `json:"country"`
}

// Im is an instant messaging handle. Protocol is nil when it could not be
// determined; IsURI marks values carrying a recognised URI scheme.
type Im struct {
	Entry
	Protocol *Vocabulary `json:"protocol,omitempty"`
	IsURI    bool        `json:"is_uri"`
}

// Tag is one CATEGORIES occurrence.
type Tag struct {
	ID     uuid.UUID     `json:"id"`
	Param  *Param        `json:"param"`
	Values []*Vocabulary `json:"values"`
}

// Kind is the KIND of object the card represents. Value is never nil.
type Kind struct {
	ID    uuid.UUID   `json:"id"`
	Value *Vocabulary `json:"value"`
	Param *Param      `json:"param"`
}

// DateEvent is a BDAY or ANNIVERSARY.
type DateEvent struct {
	ID    uuid.UUID     `json:"id"`
	Value *DateTimeText `json:"value"`
	Param *Param        `json:"param"`
}
