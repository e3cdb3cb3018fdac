package models

import (
	"time"

	"github.com/google/uuid"
)

// DateTimeFormat tells how much of a DateTimeText is known.
type DateTimeFormat string

const (
	// FormatFull means every component is known and Timestamp is set.
	FormatFull DateTimeFormat = "full"
	// FormatPartial means some components may be unknown.
	FormatPartial DateTimeFormat = "partial"
	// FormatText means the value is free text kept verbatim.
	FormatText DateTimeFormat = "text"
)

// DateTimeText is a possibly partial date-time. Nil components are unknown.
type DateTimeText struct {
	ID        uuid.UUID      `json:"id"`
	Format    DateTimeFormat `json:"format"`
	Text      string         `json:"text,omitempty"`
	Year      *int           `json:"year,omitempty"`
	Month     *int           `json:"month,omitempty"`
	Day       *int           `json:"day,omitempty"`
	Hour      *int           `json:"hour,omitempty"`
	Minute    *int           `json:"minute,omitempty"`
	Second    *int           `json:"second,omitempty"`
	Timezone  *string        `json:"timezone,omitempty"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
}
