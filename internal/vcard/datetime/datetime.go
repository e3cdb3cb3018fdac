// Package datetime resolves vCard date-and-or-time text, including truncated
// forms such as "--0305" or "T1030", into components and, when fully known, an
// absolute timestamp.
package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vcardimport/internal/vcard/models"
)

// Components are the independently known parts of a date-time. Nil means
// unknown. Timezone is canonical "±hh:mm".
type Components struct {
	Year     *int
	Month    *int
	Day      *int
	Hour     *int
	Minute   *int
	Second   *int
	Timezone *string
}

// Complete reports whether every component is known.
func (c Components) Complete() bool {
	return c.Year != nil && c.Month != nil && c.Day != nil &&
		c.Hour != nil && c.Minute != nil && c.Second != nil && c.Timezone != nil
}

var (
	dateYear      = regexp.MustCompile(`^(\d{4})$`)
	dateYearMonth = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	dateBasic     = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	dateExtended  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dateMonthDay  = regexp.MustCompile(`^--(\d{2})-?(\d{2})$`)
	dateMonth     = regexp.MustCompile(`^--(\d{2})$`)
	dateDay       = regexp.MustCompile(`^---(\d{2})$`)

	// hh[:mm[:ss]] | -mm[:ss] | --ss, optional fraction, optional zone.
	timeOfDay = regexp.MustCompile(
		`^(?:(\d{2})(?::?(\d{2})(?::?(\d{2}))?)?|-(\d{2})(?::?(\d{2}))?|--(\d{2}))(?:[.,]\d+)?(Z|[+-]\d{2}(?::?\d{2})?)?$`)
)

// ParseComponents extracts whatever components text carries. Text that
// matches no supported form, or carries an out-of-range component, yields
// all-unknown Components.
func ParseComponents(text string) Components {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return Components{}
	}

	datePart, timePart, hasTime := strings.Cut(text, "T")

	var c Components
	if datePart != "" && !parseDate(datePart, &c) {
		return Components{}
	}
	if hasTime && !parseTime(timePart, &c) {
		return Components{}
	}
	if !inRange(c) {
		return Components{}
	}
	return c
}

func parseDate(s string, c *Components) bool {
	switch {
	case dateYear.MatchString(s):
		m := dateYear.FindStringSubmatch(s)
		c.Year = atoi(m[1])
	case dateYearMonth.MatchString(s):
		m := dateYearMonth.FindStringSubmatch(s)
		c.Year, c.Month = atoi(m[1]), atoi(m[2])
	case dateBasic.MatchString(s):
		m := dateBasic.FindStringSubmatch(s)
		c.Year, c.Month, c.Day = atoi(m[1]), atoi(m[2]), atoi(m[3])
	case dateExtended.MatchString(s):
		m := dateExtended.FindStringSubmatch(s)
		c.Year, c.Month, c.Day = atoi(m[1]), atoi(m[2]), atoi(m[3])
	case dateMonthDay.MatchString(s):
		m := dateMonthDay.FindStringSubmatch(s)
		c.Month, c.Day = atoi(m[1]), atoi(m[2])
	case dateMonth.MatchString(s):
		m := dateMonth.FindStringSubmatch(s)
		c.Month = atoi(m[1])
	case dateDay.MatchString(s):
		m := dateDay.FindStringSubmatch(s)
		c.Day = atoi(m[1])
	default:
		return false
	}
	return true
}

func parseTime(s string, c *Components) bool {
	m := timeOfDay.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	c.Hour, c.Minute, c.Second = atoi(m[1]), atoi(m[2]), atoi(m[3])
	if m[4] != "" {
		c.Minute, c.Second = atoi(m[4]), atoi(m[5])
	}
	if m[6] != "" {
		c.Second = atoi(m[6])
	}
	if m[7] != "" {
		tz, ok := canonicalZone(m[7])
		if !ok {
			return false
		}
		c.Timezone = &tz
	}
	return true
}

func canonicalZone(z string) (string, bool) {
	if z == "Z" {
		return "+00:00", true
	}
	sign, digits := z[:1], strings.ReplaceAll(z[1:], ":", "")
	hours, _ := strconv.Atoi(digits[:2])
	minutes := 0
	if len(digits) == 4 {
		minutes, _ = strconv.Atoi(digits[2:])
	}
	if hours > 14 || minutes > 59 {
		return "", false
	}
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes), true
}

func inRange(c Components) bool {
	check := func(v *int, lo, hi int) bool {
		return v == nil || (*v >= lo && *v <= hi)
	}
	return check(c.Month, 1, 12) &&
		check(c.Day, 1, 31) &&
		check(c.Hour, 0, 23) &&
		check(c.Minute, 0, 59) &&
		check(c.Second, 0, 59)
}

// atoi returns nil for "" so optional regexp groups map to unknown.
func atoi(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ResolveTimestamp computes the instant c denotes. It fails unless all seven
// components are known and name a real calendar date.
func ResolveTimestamp(c Components) (time.Time, bool) {
	if !c.Complete() {
		return time.Time{}, false
	}
	offset, ok := zoneOffset(*c.Timezone)
	if !ok {
		return time.Time{}, false
	}
	t := time.Date(*c.Year, time.Month(*c.Month), *c.Day,
		*c.Hour, *c.Minute, *c.Second, 0, time.FixedZone(*c.Timezone, offset))
	if t.Year() != *c.Year || int(t.Month()) != *c.Month || t.Day() != *c.Day {
		return time.Time{}, false
	}
	return t, true
}

func zoneOffset(tz string) (int, bool) {
	if len(tz) != 6 || (tz[0] != '+' && tz[0] != '-') || tz[3] != ':' {
		return 0, false
	}
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(tz[4:6])
	if err != nil {
		return 0, false
	}
	offset := hours*3600 + minutes*60
	if tz[0] == '-' {
		offset = -offset
	}
	return offset, true
}

// Decode applies the FULL/PARTIAL policy: FULL with a timestamp when one can
// be resolved, PARTIAL with whatever components are known otherwise.
// Malformed text never fails; it yields an all-unknown PARTIAL value.
func Decode(text string) *models.DateTimeText {
	c := ParseComponents(text)
	dt := &models.DateTimeText{
		ID:       uuid.New(),
		Format:   models.FormatPartial,
		Year:     c.Year,
		Month:    c.Month,
		Day:      c.Day,
		Hour:     c.Hour,
		Minute:   c.Minute,
		Second:   c.Second,
		Timezone: c.Timezone,
	}
	if ts, ok := ResolveTimestamp(c); ok {
		dt.Format = models.FormatFull
		dt.Timestamp = &ts
	}
	return dt
}

// Text wraps free text verbatim (VALUE=text).
func Text(text string) *models.DateTimeText {
	return &models.DateTimeText{
		ID:     uuid.New(),
		Format: models.FormatText,
		Text:   text,
	}
}
