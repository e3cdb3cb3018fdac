package decoder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/parser"
	vocabstore "vcardimport/internal/vcard/store/vocabulary"
	"vcardimport/internal/vcard/vocabulary/mocks"
	dErrors "vcardimport/pkg/domain-errors"
)

type DecoderSuite struct {
	suite.Suite
	ctx  context.Context
	repo *vocabstore.InMemoryStore
}

func TestDecoderSuite(t *testing.T) {
	suite.Run(t, new(DecoderSuite))
}

func (s *DecoderSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = vocabstore.NewInMemoryStore()
}

func vcard(lines ...string) string {
	return "BEGIN:VCARD\nVERSION:4.0\n" + strings.Join(lines, "\n") + "\nEND:VCARD\n"
}

func (s *DecoderSuite) decode(text string) *models.Contact {
	contact, err := New(parser.NewReader(), s.repo).Decode(s.ctx, text)
	s.Require().NoError(err)
	s.Require().NotNil(contact)
	return contact
}

func values[T any](items []T, value func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, value(item))
	}
	return out
}

func entryValue(e *models.Entry) string             { return e.Value }
func componentValue(c *models.NameComponent) string { return c.Value }
func vocabularyValue(v *models.Vocabulary) string   { return v.Value }
func nicknameValue(n *models.NicknameValue) string  { return n.Value }
func typedEntryValue(e *models.TypedEntry) string   { return e.Value }

type failingParser struct{}

func (failingParser) Parse(string) (*parser.Card, error) {
	return nil, parser.ErrMalformed
}

func (s *DecoderSuite) TestDecodeFailures() {
	s.Run("missing begin marker", func() {
		contact, err := New(parser.NewReader(), s.repo).Decode(s.ctx, "FN:Jane\nEND:VCARD\n")
		s.Nil(contact)
		s.ErrorIs(err, ErrSourceFormat)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("tokenizer failure", func() {
		contact, err := New(failingParser{}, s.repo).Decode(s.ctx, vcard("FN:Jane"))
		s.Nil(contact)
		s.ErrorIs(err, ErrParse)
		s.ErrorIs(err, parser.ErrMalformed)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unterminated document", func() {
		contact, err := New(parser.NewReader(), s.repo).Decode(s.ctx, "BEGIN:VCARD\nFN:Jane\n")
		s.Nil(contact)
		s.ErrorIs(err, ErrParse)
	})

	s.Run("repository failure aborts without a partial record", func() {
		ctrl := gomock.NewController(s.T())
		repo := mocks.NewMockRepository(ctrl)
		boom := errors.New("connection refused")
		repo.EXPECT().FindByValue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom).AnyTimes()

		contact, err := New(parser.NewReader(), repo).Decode(s.ctx, vcard("FN:Jane"))
		s.Nil(contact)
		s.ErrorIs(err, boom)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *DecoderSuite) TestMultiInstance() {
	contact := s.decode(vcard(
		"FN:Jane Doe",
		"EMAIL:jane@work.example",
		"EMAIL:jane@home.example",
		"EMAIL:jane@old.example",
		"SOURCE:https://example.com/jane.vcf",
		"URL:https://jane.example",
		"NOTE:first note",
		"NOTE:second note",
		"ORG:Acme",
		"TITLE:Engineer",
		"KEY:https://example.com/key.asc",
	))

	s.Equal([]string{"Jane Doe"}, values(contact.FormattedNames, entryValue))
	s.Equal([]string{"jane@work.example", "jane@home.example", "jane@old.example"}, values(contact.Emails, entryValue))
	s.Equal([]string{"first note", "second note"}, values(contact.Notes, entryValue))
	s.Len(contact.Sources, 1, "SOURCE must be decoded exactly once")
	s.Len(contact.URLs, 1)
	s.Len(contact.Orgs, 1)
	s.Len(contact.Titles, 1)
	s.Len(contact.PublicKeys, 1)
	s.Empty(contact.Photos)
	s.Empty(contact.Members)

	for _, e := range contact.Emails {
		s.NotNil(e.Param)
	}
}

func (s *DecoderSuite) TestSingleInstanceUsesFirstOccurrence() {
	contact := s.decode(vcard(
		"UID:urn:uuid:first",
		"UID:urn:uuid:second",
	))
	s.Require().NotNil(contact.UID)
	s.Equal("urn:uuid:first", contact.UID.Value)
	s.NotNil(contact.UID.Param)
}

func (s *DecoderSuite) TestPhones() {
	s.Run("shared type vocabulary", func() {
		contact := s.decode(vcard(
			"TEL;TYPE=work:+1-555-0100",
			"TEL;TYPE=work,home:+1-555-0101",
		))

		s.Require().Len(contact.Phones, 2)
		first, second := contact.Phones[0], contact.Phones[1]
		s.Equal([]string{"work"}, values(first.Types, vocabularyValue))
		s.Equal([]string{"work", "home"}, values(second.Types, vocabularyValue))
		s.Same(first.Types[0], second.Types[0])
		s.Same(first.Types[0], second.Param.Types[0])
	})

	s.Run("missing type defaults to voice", func() {
		contact := s.decode(vcard("TEL:+1-555-0199"))

		s.Require().Len(contact.Phones, 1)
		s.Equal([]string{models.DefaultPhoneType}, values(contact.Phones[0].Types, vocabularyValue))
		s.True(contact.Phones[0].Param.HasType(models.DefaultPhoneType))
	})

	s.Run("empty type tokens are dropped", func() {
		contact := s.decode(vcard("TEL;TYPE=cell,,cell:+1-555-0142"))

		s.Require().Len(contact.Phones, 1)
		s.Equal([]string{"cell"}, values(contact.Phones[0].Types, vocabularyValue))
	})
}

func (s *DecoderSuite) TestRelations() {
	contact := s.decode(vcard(
		"RELATED;TYPE=friend:urn:uuid:abc",
		"RELATED:https://example.com/bob",
	))

	s.Equal([]string{"urn:uuid:abc", "https://example.com/bob"}, values(contact.Relations, typedEntryValue))
	s.Equal([]string{"friend"}, values(contact.Relations[0].Types, vocabularyValue))
	s.Empty(contact.Relations[1].Types)
}

func (s *DecoderSuite) TestKind() {
	s.Run("defaults to individual", func() {
		contact := s.decode(vcard("FN:Jane"))

		s.Require().NotNil(contact.Kind)
		s.Equal(models.KindIndividual, contact.KindValue())
		s.Require().NotNil(contact.Kind.Param)
		s.Equal(models.Param{}, *contact.Kind.Param)
	})

	s.Run("explicit kind keeps its params", func() {
		contact := s.decode(vcard("KIND;LANGUAGE=en:group"))

		s.Equal(models.KindGroup, contact.KindValue())
		s.Equal("en", contact.Kind.Param.Language)
	})
}

func (s *DecoderSuite) TestName() {
	s.Run("five positional slots", func() {
		contact := s.decode(vcard("N:Smith;John;Jacob,Paul;Dr.;"))

		s.Require().Len(contact.Names, 1)
		name := contact.Names[0]
		s.Equal([]string{"Smith"}, values(name.FamilyNames, componentValue))
		s.Equal([]string{"John"}, values(name.GivenNames, componentValue))
		s.Equal([]string{"Jacob", "Paul"}, values(name.AdditionalNames, componentValue))
		s.Equal([]string{"Dr."}, values(name.Prefixes, componentValue))
		s.Empty(name.Suffixes)
	})

	s.Run("escaped separators stay inside a component", func() {
		contact := s.decode(vcard(`N:O\;Brien;Mary\,Ann,Jo;;;`))

		name := contact.Names[0]
		s.Equal([]string{"O;Brien"}, values(name.FamilyNames, componentValue))
		s.Equal([]string{"Mary,Ann", "Jo"}, values(name.GivenNames, componentValue))
	})

	s.Run("short value leaves trailing slots empty", func() {
		contact := s.decode(vcard("N:Doe;Jane"))

		name := contact.Names[0]
		s.Equal([]string{"Doe"}, values(name.FamilyNames, componentValue))
		s.Equal([]string{"Jane"}, values(name.GivenNames, componentValue))
		s.Empty(name.AdditionalNames)
		s.Empty(name.Prefixes)
		s.Empty(name.Suffixes)
	})

	s.Run("only the first occurrence", func() {
		contact := s.decode(vcard("N:One;;;;", "N:Two;;;;"))

		s.Require().Len(contact.Names, 1)
		s.Equal([]string{"One"}, values(contact.Names[0].FamilyNames, componentValue))
	})
}

func (s *DecoderSuite) TestNicknames() {
	contact := s.decode(vcard(
		"NICKNAME:Jim,Jimmie",
		"NICKNAME:Boss",
	))

	s.Require().Len(contact.Nicknames, 2)
	s.Equal([]string{"Jim", "Jimmie"}, values(contact.Nicknames[0].Values, nicknameValue))
	s.Equal([]string{"Boss"}, values(contact.Nicknames[1].Values, nicknameValue))

	s.Run("escaped comma stays inside a value", func() {
		contact := s.decode(vcard(`NICKNAME:Jim\,Jimmie,Bob`))

		s.Require().Len(contact.Nicknames, 1)
		s.Equal([]string{"Jim,Jimmie", "Bob"}, values(contact.Nicknames[0].Values, nicknameValue))
	})
}

func (s *DecoderSuite) TestGender() {
	s.Run("legacy fallback", func() {
		contact := s.decode(vcard("X-GENDER:Male"))

		s.Require().NotNil(contact.Gender)
		s.Require().NotNil(contact.Gender.Value)
		s.Equal(models.GenderMale, contact.Gender.Value.Value)
		s.Equal("", contact.Gender.Comment)
	})

	s.Run("legacy short form", func() {
		contact := s.decode(vcard("X-GENDER:f"))

		s.Require().NotNil(contact.Gender)
		s.Equal(models.GenderFemale, contact.Gender.Value.Value)
	})

	s.Run("standard property wins", func() {
		contact := s.decode(vcard("GENDER:F;she/her", "X-GENDER:Male"))

		s.Require().NotNil(contact.Gender)
		s.Equal(models.GenderFemale, contact.Gender.Value.Value)
		s.Equal("she/her", contact.Gender.Comment)
	})

	s.Run("comment split on the first separator only", func() {
		contact := s.decode(vcard("GENDER:O;a;b"))

		s.Equal(models.GenderOther, contact.Gender.Value.Value)
		s.Equal("a;b", contact.Gender.Comment)
	})

	s.Run("unknown value keeps the comment", func() {
		contact := s.decode(vcard("GENDER:Z;custom"))

		s.Require().NotNil(contact.Gender)
		s.Nil(contact.Gender.Value)
		s.Equal("custom", contact.Gender.Comment)
	})

	s.Run("unmapped legacy value yields nothing", func() {
		contact := s.decode(vcard("X-GENDER:unspecified"))
		s.Nil(contact.Gender)
	})

	s.Run("absent", func() {
		contact := s.decode(vcard("FN:Jane"))
		s.Nil(contact.Gender)
	})
}

func (s *DecoderSuite) TestAddresses() {
	s.Run("seven fields with assembled street", func() {
		contact := s.decode(vcard("ADR:1;2;3;City;Region;0000;US"))

		s.Require().Len(contact.Addresses, 1)
		adr := contact.Addresses[0]
		s.Equal("1\n2\n3", adr.Street)
		s.Equal("City", adr.Locality)
		s.Equal("Region", adr.Region)
		s.Equal("0000", adr.PostalCode)
		s.Equal("US", adr.Country)
	})

	s.Run("empty street parts are skipped", func() {
		contact := s.decode(vcard("ADR;TYPE=home:;;123 Main St;Springfield;IL;62701;USA"))

		adr := contact.Addresses[0]
		s.Equal("123 Main St", adr.Street)
		s.Equal("", adr.POBox)
		s.True(adr.Param.HasType("home"))
	})

	s.Run("escaped semicolon stays inside a field", func() {
		contact := s.decode(vcard(`ADR:;;Main St\; Bldg 2;City;;;US`))

		adr := contact.Addresses[0]
		s.Equal("Main St; Bldg 2", adr.StreetAddress)
		s.Equal("City", adr.Locality)
		s.Equal("US", adr.Country)
	})

	s.Run("short value degrades to empty fields", func() {
		contact := s.decode(vcard("ADR:;;Main St"))

		adr := contact.Addresses[0]
		s.Equal("Main St", adr.Street)
		s.Equal("", adr.Locality)
		s.Equal("", adr.Country)
	})
}

func (s *DecoderSuite) TestIms() {
	contact := s.decode(vcard(
		"IMPP:xmpp:alice@example.com",
		"IMPP;PREF=1:skype:alice.s",
		"IMPP:sip:alice@example.com",
		"X-SKYPE-USERNAME:alice.legacy",
		"X-ICQ:123456",
	))

	s.Require().Len(contact.Ims, 5)

	jabber := contact.Ims[0]
	s.Equal("xmpp:alice@example.com", jabber.Value)
	s.Require().NotNil(jabber.Protocol)
	s.Equal(models.ImProtocolJabber, jabber.Protocol.Value)
	s.True(jabber.IsURI)

	skype := contact.Ims[1]
	s.Equal(models.ImProtocolSkype, skype.Protocol.Value)
	s.Equal("1", skype.Param.Pref)

	unknown := contact.Ims[2]
	s.Nil(unknown.Protocol)
	s.False(unknown.IsURI)

	// legacy properties follow IMPP, in protocol table order
	icq := contact.Ims[3]
	s.Equal("123456", icq.Value)
	s.Equal(models.ImProtocolICQ, icq.Protocol.Value)

	legacySkype := contact.Ims[4]
	s.Equal("alice.legacy", legacySkype.Value)
	s.Same(skype.Protocol, legacySkype.Protocol)
	s.False(legacySkype.IsURI)
}

func (s *DecoderSuite) TestImProtocolIsDetectedPerOccurrence() {
	contact := s.decode(vcard(
		"IMPP:aim:alice",
		"IMPP:alice-without-scheme",
	))

	s.Require().Len(contact.Ims, 2)
	s.Equal(models.ImProtocolAIM, contact.Ims[0].Protocol.Value)
	s.Nil(contact.Ims[1].Protocol)
}

func (s *DecoderSuite) TestTags() {
	contact := s.decode(vcard(
		"CATEGORIES:friends,,work",
		"CATEGORIES:work",
	))

	s.Require().Len(contact.Tags, 2)
	s.Equal([]string{"friends", "work"}, values(contact.Tags[0].Values, vocabularyValue))
	s.Equal([]string{"work"}, values(contact.Tags[1].Values, vocabularyValue))
	s.Same(contact.Tags[0].Values[1], contact.Tags[1].Values[0])

	s.Run("escaped comma stays inside a tag", func() {
		contact := s.decode(vcard(`CATEGORIES:a\,b,c`))

		s.Require().Len(contact.Tags, 1)
		s.Equal([]string{"a,b", "c"}, values(contact.Tags[0].Values, vocabularyValue))
	})
}

func (s *DecoderSuite) TestDates() {
	s.Run("partial birthday", func() {
		contact := s.decode(vcard("BDAY:1985-03-05"))

		s.Require().NotNil(contact.Birthday)
		dt := contact.Birthday.Value
		s.Equal(models.FormatPartial, dt.Format)
		s.Equal(1985, *dt.Year)
		s.Equal(3, *dt.Month)
		s.Equal(5, *dt.Day)
		s.Nil(dt.Hour)
		s.Nil(dt.Minute)
		s.Nil(dt.Second)
		s.Nil(dt.Timezone)
		s.Nil(dt.Timestamp)
	})

	s.Run("full anniversary", func() {
		contact := s.decode(vcard("ANNIVERSARY:20090808T143000Z"))

		dt := contact.Anniversary.Value
		s.Equal(models.FormatFull, dt.Format)
		s.Require().NotNil(dt.Timestamp)
		s.True(dt.Timestamp.Equal(time.Date(2009, 8, 8, 14, 30, 0, 0, time.UTC)))
	})

	s.Run("text value kept verbatim", func() {
		contact := s.decode(vcard("BDAY;VALUE=text:circa 1800"))

		dt := contact.Birthday.Value
		s.Equal(models.FormatText, dt.Format)
		s.Equal("circa 1800", dt.Text)
		s.Require().NotNil(contact.Birthday.Param.ValueType)
		s.Equal("text", contact.Birthday.Param.ValueType.Value)
	})

	s.Run("malformed date degrades", func() {
		contact := s.decode(vcard("BDAY:someday"))

		dt := contact.Birthday.Value
		s.Equal(models.FormatPartial, dt.Format)
		s.Nil(dt.Year)
	})

	s.Run("absent", func() {
		contact := s.decode(vcard("FN:Jane"))
		s.Nil(contact.Birthday)
		s.Nil(contact.Anniversary)
	})
}

func (s *DecoderSuite) TestParams() {
	contact := s.decode(vcard(
		"EMAIL;ALTID=1;LANGUAGE=en;PREF=1;TYPE=work;MEDIATYPE=text/plain:jane@example.com",
		"PHOTO;VALUE=uri:https://example.com/jane.png",
		"LOGO;VALUE=uri:https://example.com/logo.png",
	))

	p := contact.Emails[0].Param
	s.Equal("1", p.AltID)
	s.Equal("en", p.Language)
	s.Equal("1", p.Pref)
	s.Equal("text/plain", p.MediaType)
	s.Equal([]string{"work"}, values(p.Types, vocabularyValue))
	s.Nil(p.ValueType)

	photo := contact.Photos[0].Param.ValueType
	logo := contact.Logos[0].Param.ValueType
	s.Require().NotNil(photo)
	s.Equal("uri", photo.Value)
	s.Same(photo, logo)
}

func (s *DecoderSuite) TestCodePointEscape() {
	contact := s.decode(vcard("FN:Ren<U+00e9> Dupont"))
	s.Equal("René Dupont", contact.FormattedNames[0].Value)
}

func (s *DecoderSuite) TestSessionsShareTheRepository() {
	first := s.decode(vcard("TEL;TYPE=work:1"))
	second := s.decode(vcard("TEL;TYPE=work:2"))

	s.Equal(first.Phones[0].Types[0].ID, second.Phones[0].Types[0].ID)
}
