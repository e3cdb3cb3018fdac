package models

import "github.com/google/uuid"

// Contact is the aggregate root produced by decoding one vCard. It is owned
// by a single decode session until handed to the caller.
//
// Invariants:
//   - Kind is always set
//   - k occurrences of a multi-instance property yield k entries, in source order
//   - Vocabulary pointers are shared between entities using the same value
type Contact struct {
	ID               uuid.UUID     `json:"id"`
	Kind             *Kind         `json:"kind"`
	Sources          []*Entry      `json:"sources,omitempty"`
	FormattedNames   []*Entry      `json:"formatted_names,omitempty"`
	Names            []*Name       `json:"names,omitempty"`
	Nicknames        []*Nickname   `json:"nicknames,omitempty"`
	Photos           []*Entry      `json:"photos,omitempty"`
	Birthday         *DateEvent    `json:"birthday,omitempty"`
	Anniversary      *DateEvent    `json:"anniversary,omitempty"`
	Gender           *Gender       `json:"gender,omitempty"`
	Addresses        []*Address    `json:"addresses,omitempty"`
	Phones           []*TypedEntry `json:"phones,omitempty"`
	Emails           []*Entry      `json:"emails,omitempty"`
	Ims              []*Im         `json:"ims,omitempty"`
	Languages        []*Entry      `json:"languages,omitempty"`
	Timezones        []*Entry      `json:"timezones,omitempty"`
	Geos             []*Entry      `json:"geos,omitempty"`
	Titles           []*Entry      `json:"titles,omitempty"`
	Roles            []*Entry      `json:"roles,omitempty"`
	Logos            []*Entry      `json:"logos,omitempty"`
	Orgs             []*Entry      `json:"orgs,omitempty"`
	Members          []*Entry      `json:"members,omitempty"`
	Relations        []*TypedEntry `json:"relations,omitempty"`
	Tags             []*Tag        `json:"tags,omitempty"`
	Notes            []*Entry      `json:"notes,omitempty"`
	Sounds           []*Entry      `json:"sounds,omitempty"`
	UID              *Entry        `json:"uid,omitempty"`
	URLs             []*Entry      `json:"urls,omitempty"`
	PublicKeys       []*Entry      `json:"public_keys,omitempty"`
	Freebusy         []*Entry      `json:"freebusy,omitempty"`
	Calendars        []*Entry      `json:"calendars,omitempty"`
	CalendarRequests []*Entry      `json:"calendar_requests,omitempty"`
}

// NewContact returns an empty contact with a fresh ID.
func NewContact() *Contact {
	return &Contact{ID: uuid.New()}
}

// KindValue returns the kind vocabulary value, or "" when unset.
func (c *Contact) KindValue() string {
	if c.Kind == nil || c.Kind.Value == nil {
		return ""
	}
	return c.Kind.Value.Value
}

// Counts summarises how many entities of each collection were decoded.
func (c *Contact) Counts() map[string]int {
	counts := map[string]int{
		"sources":           len(c.Sources),
		"formatted_names":   len(c.FormattedNames),
		"names":             len(c.Names),
		"nicknames":         len(c.Nicknames),
		"photos":            len(c.Photos),
		"addresses":         len(c.Addresses),
		"phones":            len(c.Phones),
		"emails":            len(c.Emails),
		"ims":               len(c.Ims),
		"languages":         len(c.Languages),
		"timezones":         len(c.Timezones),
		"geos":              len(c.Geos),
		"titles":            len(c.Titles),
		"roles":             len(c.Roles),
		"logos":             len(c.Logos),
		"orgs":              len(c.Orgs),
		"members":           len(c.Members),
		"relations":         len(c.Relations),
		"tags":              len(c.Tags),
		"notes":             len(c.Notes),
		"sounds":            len(c.Sounds),
		"urls":              len(c.URLs),
		"public_keys":       len(c.PublicKeys),
		"freebusy":          len(c.Freebusy),
		"calendars":         len(c.Calendars),
		"calendar_requests": len(c.CalendarRequests),
	}
	for name, n := range counts {
		if n == 0 {
			delete(counts, name)
		}
	}
	return counts
}
