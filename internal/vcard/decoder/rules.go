package decoder

import (
	"context"

	"github.com/google/uuid"

	"vcardimport/internal/vcard/datetime"
	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/parser"
	strutil "vcardimport/pkg/platform/strings"
)

// entryField selects a plain Entry collection of the contact.
type entryField struct {
	property string
	field    func(c *models.Contact) *[]*models.Entry
}

// multiInstanceFields lists properties decoded one Entry per occurrence.
var multiInstanceFields = []entryField{
	{"SOURCE", func(c *models.Contact) *[]*models.Entry { return &c.Sources }},
	{"FN", func(c *models.Contact) *[]*models.Entry { return &c.FormattedNames }},
	{"PHOTO", func(c *models.Contact) *[]*models.Entry { return &c.Photos }},
	{"EMAIL", func(c *models.Contact) *[]*models.Entry { return &c.Emails }},
	{"LANG", func(c *models.Contact) *[]*models.Entry { return &c.Languages }},
	{"TZ", func(c *models.Contact) *[]*models.Entry { return &c.Timezones }},
	{"GEO", func(c *models.Contact) *[]*models.Entry { return &c.Geos }},
	{"TITLE", func(c *models.Contact) *[]*models.Entry { return &c.Titles }},
	{"ROLE", func(c *models.Contact) *[]*models.Entry { return &c.Roles }},
	{"LOGO", func(c *models.Contact) *[]*models.Entry { return &c.Logos }},
	{"ORG", func(c *models.Contact) *[]*models.Entry { return &c.Orgs }},
	{"MEMBER", func(c *models.Contact) *[]*models.Entry { return &c.Members }},
	{"NOTE", func(c *models.Contact) *[]*models.Entry { return &c.Notes }},
	{"SOUND", func(c *models.Contact) *[]*models.Entry { return &c.Sounds }},
	{"URL", func(c *models.Contact) *[]*models.Entry { return &c.URLs }},
	{"KEY", func(c *models.Contact) *[]*models.Entry { return &c.PublicKeys }},
	{"FBURL", func(c *models.Contact) *[]*models.Entry { return &c.Freebusy }},
	{"CALURI", func(c *models.Contact) *[]*models.Entry { return &c.Calendars }},
	{"CALADRURI", func(c *models.Contact) *[]*models.Entry { return &c.CalendarRequests }},
}

func (d *Decoder) decodeMultiInstance(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	for _, f := range multiInstanceFields {
		entries, err := d.entries(ctx, card.Properties(f.property))
		if err != nil {
			return err
		}
		*f.field(contact) = entries
	}
	return nil
}

// entries builds one Entry per property, in order.
func (d *Decoder) entries(ctx context.Context, props []*parser.Property) ([]*models.Entry, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make([]*models.Entry, 0, len(props))
	for _, prop := range props {
		param, err := d.importParam(ctx, prop)
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewEntry(prop.Value, param))
	}
	return out, nil
}

// typedEntries is entries plus the occurrence's TYPE tokens attached to the
// entity itself.
func (d *Decoder) typedEntries(ctx context.Context, props []*parser.Property) ([]*models.TypedEntry, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make([]*models.TypedEntry, 0, len(props))
	for _, prop := range props {
		param, err := d.importParam(ctx, prop)
		if err != nil {
			return nil, err
		}
		types, err := d.resolveAll(ctx, models.VocabularyType, strutil.SplitSet(prop.ParamValues("TYPE"), ","))
		if err != nil {
			return nil, err
		}
		out = append(out, &models.TypedEntry{
			Entry: *models.NewEntry(prop.Value, param),
			Types: types,
		})
	}
	return out, nil
}

func (d *Decoder) decodePhones(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	props := card.Properties("TEL")
	withDefaults := make([]*parser.Property, 0, len(props))
	for _, prop := range props {
		if len(strutil.SplitSet(prop.ParamValues("TYPE"), ",")) == 0 {
			prop = prop.WithParam("TYPE", models.DefaultPhoneType)
		}
		withDefaults = append(withDefaults, prop)
	}

	phones, err := d.typedEntries(ctx, withDefaults)
	if err != nil {
		return err
	}
	contact.Phones = phones
	return nil
}

func (d *Decoder) decodeRelations(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	relations, err := d.typedEntries(ctx, card.Properties("RELATED"))
	if err != nil {
		return err
	}
	contact.Relations = relations
	return nil
}

func (d *Decoder) decodeUID(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	prop := card.First("UID")
	if prop == nil {
		return nil
	}
	param, err := d.importParam(ctx, prop)
	if err != nil {
		return err
	}
	contact.UID = models.NewEntry(prop.Value, param)
	return nil
}

func (d *Decoder) decodeBirthday(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	event, err := d.dateEvent(ctx, card.First("BDAY"))
	if err != nil {
		return err
	}
	contact.Birthday = event
	return nil
}

func (d *Decoder) decodeAnniversary(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	event, err := d.dateEvent(ctx, card.First("ANNIVERSARY"))
	if err != nil {
		return err
	}
	contact.Anniversary = event
	return nil
}

// dateEvent decodes a single-instance date property. VALUE=text keeps the
// raw string; anything else goes through the date-time resolver.
func (d *Decoder) dateEvent(ctx context.Context, prop *parser.Property) (*models.DateEvent, error) {
	if prop == nil {
		return nil, nil
	}
	param, err := d.importParam(ctx, prop)
	if err != nil {
		return nil, err
	}

	var value *models.DateTimeText
	if prop.Param("VALUE") == "text" {
		value = datetime.Text(prop.Value)
	} else {
		value = datetime.Decode(prop.Value)
		if value.Format == models.FormatPartial && value.Year == nil && value.Month == nil &&
			value.Day == nil && value.Hour == nil && value.Minute == nil && value.Second == nil {
			d.logger.DebugContext(ctx, "unresolvable date-time",
				"property", prop.Name,
				"value", prop.Value,
			)
		}
	}

	return &models.DateEvent{
		ID:    uuid.New(),
		Value: value,
		Param: param,
	}, nil
}
