package decoder

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/parser"
	strutil "vcardimport/pkg/platform/strings"
)

const (
	nameSlots    = 5
	addressSlots = 7
)

// decodeKind always produces a Kind, defaulting to individual.
func (d *Decoder) decodeKind(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	value := models.DefaultKind
	param := &models.Param{}
	if prop := card.First("KIND"); prop != nil {
		if prop.Value != "" {
			value = prop.Value
		}
		var err error
		if param, err = d.importParam(ctx, prop); err != nil {
			return err
		}
	}

	kind, err := d.cache.Resolve(ctx, models.VocabularyKindValue, value)
	if err != nil {
		return err
	}
	contact.Kind = &models.Kind{ID: uuid.New(), Value: kind, Param: param}
	return nil
}

// decodeName reads the first N: family;given;additional;prefix;suffix, each
// slot a comma-separated list.
func (d *Decoder) decodeName(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	prop := card.First("N")
	if prop == nil {
		return nil
	}
	param, err := d.importParam(ctx, prop)
	if err != nil {
		return err
	}

	slots := prop.Components(';')
	if len(slots) != nameSlots {
		d.logger.DebugContext(ctx, "unexpected name arity",
			"expected", nameSlots,
			"got", len(slots),
		)
	}
	slots = pad(slots, nameSlots)

	contact.Names = []*models.Name{{
		ID:              uuid.New(),
		Param:           param,
		FamilyNames:     nameComponents(slots[0]),
		GivenNames:      nameComponents(slots[1]),
		AdditionalNames: nameComponents(slots[2]),
		Prefixes:        nameComponents(slots[3]),
		Suffixes:        nameComponents(slots[4]),
	}}
	return nil
}

func nameComponents(slot string) []*models.NameComponent {
	if slot == "" {
		return []*models.NameComponent{}
	}
	parts := strutil.SplitEscaped(slot, ',')
	out := make([]*models.NameComponent, 0, len(parts))
	for _, p := range parts {
		out = append(out, &models.NameComponent{ID: uuid.New(), Value: strutil.Unescape(p)})
	}
	return out
}

func (d *Decoder) decodeNicknames(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	for _, prop := range card.Properties("NICKNAME") {
		param, err := d.importParam(ctx, prop)
		if err != nil {
			return err
		}
		parts := prop.Components(',')
		values := make([]*models.NicknameValue, 0, len(parts))
		for _, p := range parts {
			values = append(values, &models.NicknameValue{ID: uuid.New(), Value: strutil.Unescape(p)})
		}
		contact.Nicknames = append(contact.Nicknames, &models.Nickname{
			ID:     uuid.New(),
			Param:  param,
			Values: values,
		})
	}
	return nil
}

// legacyGenders maps X-GENDER values, compared case-insensitively.
var legacyGenders = map[string]string{
	"male":   models.GenderMale,
	"m":      models.GenderMale,
	"female": models.GenderFemale,
	"f":      models.GenderFemale,
}

// decodeGender prefers GENDER and falls back to X-GENDER. The value before
// the first ';' is the sex, the rest the identity comment.
func (d *Decoder) decodeGender(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	var (
		prop *parser.Property
		raw  string
	)
	if p := card.First("GENDER"); p != nil && p.Value != "" {
		prop, raw = p, p.Escaped()
	} else if p := card.First("X-GENDER"); p != nil {
		mapped, ok := legacyGenders[strings.ToLower(strings.TrimSpace(p.Value))]
		if !ok {
			d.logger.DebugContext(ctx, "unknown legacy gender", "value", p.Value)
			return nil
		}
		prop, raw = p, mapped
	}
	if prop == nil {
		return nil
	}

	param, err := d.importParam(ctx, prop)
	if err != nil {
		return err
	}
	value, comment := raw, ""
	if parts := strutil.SplitEscaped(raw, ';'); len(parts) > 1 {
		value, comment = parts[0], raw[len(parts[0])+1:]
	}
	value = strutil.Unescape(value)
	gender := &models.Gender{
		ID:      uuid.New(),
		Comment: strutil.Unescape(comment),
		Param:   param,
	}
	if models.IsValidGender(value) {
		if gender.Value, err = d.cache.Resolve(ctx, models.VocabularyGenderValue, value); err != nil {
			return err
		}
	} else if value != "" {
		d.logger.DebugContext(ctx, "unknown gender", "value", value)
	}
	contact.Gender = gender
	return nil
}

func (d *Decoder) decodeAddresses(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	for _, prop := range card.Properties("ADR") {
		param, err := d.importParam(ctx, prop)
		if err != nil {
			return err
		}

		fields := prop.Components(';')
		if len(fields) != addressSlots {
			d.logger.DebugContext(ctx, "unexpected address arity",
				"expected", addressSlots,
				"got", len(fields),
			)
		}
		fields = pad(fields, addressSlots)
		for i := range fields {
			fields[i] = strutil.Unescape(fields[i])
		}

		var street []string
		for _, part := range fields[:3] {
			if part != "" {
				street = append(street, part)
			}
		}
		contact.Addresses = append(contact.Addresses, &models.Address{
			ID:            uuid.New(),
			Param:         param,
			POBox:         fields[0],
			Extended:      fields[1],
			StreetAddress: fields[2],
			Street:        strings.Join(street, "\n"),
			Locality:      fields[3],
			Region:        fields[4],
			PostalCode:    fields[5],
			Country:       fields[6],
		})
	}
	return nil
}

// pad returns exactly n fields, truncating or filling with "".
func pad(fields []string, n int) []string {
	out := make([]string, n)
	copy(out, fields)
	return out
}

type imScheme struct {
	prefix   string
	protocol string
}

// imSchemes is scanned in order; the first prefix found anywhere in an IMPP
// value wins.
var imSchemes = []imScheme{
	{"xmpp:", models.ImProtocolJabber},
	{"aim:", models.ImProtocolAIM},
	{"callto:", models.ImProtocolSkype},
	{"gg:", models.ImProtocolGaduGadu},
	{"gtalk:", models.ImProtocolJabber},
	{"msnim:", models.ImProtocolMSN},
	{"skype:", models.ImProtocolSkype},
	{"ymsgr:", models.ImProtocolYahoo},
	{"im:", models.ImProtocolJabber},
}

type legacyIm struct {
	property string
	protocol string
}

var legacyIms = []legacyIm{
	{"X-AIM", models.ImProtocolAIM},
	{"X-GADUGADU", models.ImProtocolGaduGadu},
	{"X-GROUPWISE", models.ImProtocolGroupWise},
	{"X-ICQ", models.ImProtocolICQ},
	{"X-JABBER", models.ImProtocolJabber},
	{"X-MSN", models.ImProtocolMSN},
	{"X-SKYPE", models.ImProtocolSkype},
	{"X-SKYPE-USERNAME", models.ImProtocolSkype},
	{"X-TWITTER", models.ImProtocolTwitter},
	{"X-YAHOO", models.ImProtocolYahoo},
}

// decodeIms reads IMPP, detecting each occurrence's protocol from its URI
// scheme, then every legacy messaging property with its fixed protocol.
func (d *Decoder) decodeIms(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	for _, prop := range card.Properties("IMPP") {
		protocol := ""
		for _, s := range imSchemes {
			if strings.Contains(prop.Value, s.prefix) {
				protocol = s.protocol
				break
			}
		}
		if protocol == "" {
			d.logger.DebugContext(ctx, "unrecognised im scheme", "value", prop.Value)
		}
		if err := d.appendIm(ctx, contact, prop, protocol, protocol != ""); err != nil {
			return err
		}
	}

	for _, legacy := range legacyIms {
		for _, prop := range card.Properties(legacy.property) {
			if err := d.appendIm(ctx, contact, prop, legacy.protocol, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) appendIm(ctx context.Context, contact *models.Contact, prop *parser.Property, protocol string, isURI bool) error {
	param, err := d.importParam(ctx, prop)
	if err != nil {
		return err
	}
	im := &models.Im{
		Entry: *models.NewEntry(prop.Value, param),
		IsURI: isURI,
	}
	if protocol != "" {
		if im.Protocol, err = d.cache.Resolve(ctx, models.VocabularyImProtocol, protocol); err != nil {
			return err
		}
	}
	contact.Ims = append(contact.Ims, im)
	return nil
}

func (d *Decoder) decodeTags(ctx context.Context, card *parser.Card, contact *models.Contact) error {
	for _, prop := range card.Properties("CATEGORIES") {
		param, err := d.importParam(ctx, prop)
		if err != nil {
			return err
		}
		values, err := d.resolveAll(ctx, models.VocabularyTagValue, strutil.SplitEscapedNonEmpty(prop.Escaped(), ','))
		if err != nil {
			return err
		}
		contact.Tags = append(contact.Tags, &models.Tag{
			ID:     uuid.New(),
			Param:  param,
			Values: values,
		})
	}
	return nil
}
