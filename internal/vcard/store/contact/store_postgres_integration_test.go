//go:build integration

package contact_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vcardimport/internal/vcard/decoder"
	"vcardimport/internal/vcard/parser"
	"vcardimport/internal/vcard/store/contact"
	"vcardimport/internal/vcard/store/vocabulary"
	"vcardimport/pkg/platform/sentinel"
	"vcardimport/pkg/testutil/containers"
)

const fullCard = "BEGIN:VCARD\nVERSION:4.0\n" +
	"FN:Jane Doe\n" +
	"N:Doe;Jane;;Dr.;\n" +
	"UID:urn:uuid:4fbe8971-0bc3-424c-9c26-36c3e1eff6b1\n" +
	"BDAY:1985-03-05\n" +
	"TEL;TYPE=work,voice:+1 555 0100\n" +
	"CATEGORIES:friends,work\n" +
	"END:VCARD\n"

type PostgresContactSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *contact.PostgresStore
	vocab    *vocabulary.PostgresStore
}

func TestPostgresContactSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresContactSuite))
}

func (s *PostgresContactSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = contact.NewPostgres(s.postgres.DB)
	s.vocab = vocabulary.NewPostgres(s.postgres.DB)
}

func (s *PostgresContactSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "contacts", "vocabulary"))
}

func (s *PostgresContactSuite) TestRoundTrip() {
	ctx := context.Background()
	decoded, err := decoder.New(parser.NewReader(), s.vocab).Decode(ctx, fullCard)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Save(ctx, decoded))

	found, err := s.store.FindByID(ctx, decoded.ID)
	s.Require().NoError(err)
	s.Equal(decoded.ID, found.ID)
	s.Equal("individual", found.KindValue())
	s.Require().Len(found.Names, 1)
	s.Equal("Doe", found.Names[0].FamilyNames[0].Value)
	s.Require().NotNil(found.Birthday)
	s.Equal(1985, *found.Birthday.Value.Year)
	s.Require().Len(found.Phones, 1)
	s.Len(found.Phones[0].Types, 2)
	s.Require().Len(found.Tags, 1)
	s.Require().Len(found.Tags[0].Values, 2)
	s.Equal(decoded.Tags[0].Values[0].ID, found.Tags[0].Values[0].ID)
}

func (s *PostgresContactSuite) TestSaveOverwrites() {
	ctx := context.Background()
	decoded, err := decoder.New(parser.NewReader(), s.vocab).Decode(ctx, fullCard)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, decoded))

	decoded.FormattedNames[0].Value = "Jane Q. Doe"
	s.Require().NoError(s.store.Save(ctx, decoded))

	found, err := s.store.FindByID(ctx, decoded.ID)
	s.Require().NoError(err)
	s.Equal("Jane Q. Doe", found.FormattedNames[0].Value)
}

func (s *PostgresContactSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
