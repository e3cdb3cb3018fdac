//go:build integration

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/parser"
	"vcardimport/internal/vcard/service"
	"vcardimport/internal/vcard/store/contact"
	"vcardimport/internal/vcard/store/vocabulary"
	dErrors "vcardimport/pkg/domain-errors"
	"vcardimport/pkg/testutil/containers"
)

const card = "BEGIN:VCARD\nVERSION:4.0\nFN:Jane Doe\nIMPP:xmpp:jane@example.com\nEND:VCARD\n"

type failingContacts struct {
	*contact.PostgresStore
}

func (f failingContacts) Save(ctx context.Context, c *models.Contact) error {
	if err := f.PostgresStore.Save(ctx, c); err != nil {
		return err
	}
	return errors.New("simulated failure after write")
}

type ImportIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	vocab    *vocabulary.PostgresStore
	contacts *contact.PostgresStore
}

func TestImportIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ImportIntegrationSuite))
}

func (s *ImportIntegrationSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.vocab = vocabulary.NewPostgres(s.postgres.DB)
	s.contacts = contact.NewPostgres(s.postgres.DB)
}

func (s *ImportIntegrationSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "contacts", "vocabulary"))
}

func (s *ImportIntegrationSuite) TestImportCommits() {
	ctx := context.Background()
	svc := service.New(parser.NewReader(), s.vocab, s.contacts, service.WithDB(s.postgres.DB))

	imported, err := svc.Import(ctx, card)
	s.Require().NoError(err)

	found, err := svc.Get(ctx, imported.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Ims, 1)
	s.Equal("xmpp", found.Ims[0].Protocol.Value)

	protocol, err := s.vocab.FindByValue(ctx, models.VocabularyImProtocol, "xmpp")
	s.Require().NoError(err)
	s.Equal(imported.Ims[0].Protocol.ID, protocol.ID)
}

func (s *ImportIntegrationSuite) TestFailedImportRollsBack() {
	ctx := context.Background()
	svc := service.New(parser.NewReader(), s.vocab, failingContacts{s.contacts}, service.WithDB(s.postgres.DB))

	imported, err := svc.Import(ctx, card)
	s.Nil(imported)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	// Vocabulary is committed on its own and outlives the failed import.
	_, err = s.vocab.FindByValue(ctx, models.VocabularyImProtocol, "xmpp")
	s.NoError(err)

	var rows int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx, `SELECT count(*) FROM contacts`).Scan(&rows))
	s.Zero(rows)
}

func (s *ImportIntegrationSuite) TestBatchSharesVocabulary() {
	ctx := context.Background()
	svc := service.New(parser.NewReader(), s.vocab, s.contacts,
		service.WithDB(s.postgres.DB),
		service.WithConcurrency(3),
	)

	results, err := svc.ImportBatch(ctx, []string{card, card, card, card})
	s.Require().NoError(err)

	var protocolID string
	for _, r := range results {
		s.Require().NoError(r.Err)
		id := r.Contact.Ims[0].Protocol.ID.String()
		if protocolID == "" {
			protocolID = id
		}
		s.Equal(protocolID, id)
	}
}

func (s *ImportIntegrationSuite) TestBatchWithReversedTypeOrder() {
	ctx := context.Background()
	svc := service.New(parser.NewReader(), s.vocab, s.contacts,
		service.WithDB(s.postgres.DB),
		service.WithConcurrency(4),
	)
	workHome := "BEGIN:VCARD\nVERSION:4.0\nFN:A\nTEL;TYPE=work,home,cell:+1\nCATEGORIES:x,y\nEND:VCARD\n"
	homeWork := "BEGIN:VCARD\nVERSION:4.0\nFN:B\nTEL;TYPE=cell,home,work:+2\nCATEGORIES:y,x\nEND:VCARD\n"

	for round := range 5 {
		s.Require().NoError(s.postgres.TruncateTables(ctx, "contacts", "vocabulary"))

		results, err := svc.ImportBatch(ctx, []string{workHome, homeWork, workHome, homeWork})
		s.Require().NoError(err, "round %d", round)

		typeIDs := make(map[string]string)
		for _, r := range results {
			s.Require().NoError(r.Err, "round %d", round)
			s.Require().Len(r.Contact.Phones, 1)
			for _, t := range r.Contact.Phones[0].Types {
				if id, ok := typeIDs[t.Value]; ok {
					s.Equal(id, t.ID.String(), "round %d type %s", round, t.Value)
					continue
				}
				typeIDs[t.Value] = t.ID.String()
			}
		}
		s.Len(typeIDs, 3)
	}
}
