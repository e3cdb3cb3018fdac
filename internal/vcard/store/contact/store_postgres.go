package contact

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vcardimport/internal/vcard/models"
	"vcardimport/pkg/platform/sentinel"
	"vcardimport/pkg/platform/tx"
)

// PostgresStore persists each contact graph as one JSONB document.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed contact store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, contact *models.Contact) error {
	if contact == nil {
		return fmt.Errorf("contact is required")
	}
	doc, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	var uid sql.NullString
	if contact.UID != nil {
		uid = sql.NullString{String: contact.UID.Value, Valid: true}
	}

	_, err = tx.Resolve(ctx, s.db).ExecContext(ctx, `
		INSERT INTO contacts (id, kind, uid, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			uid = EXCLUDED.uid,
			document = EXCLUDED.document
	`, contact.ID, contact.KindValue(), uid, doc)
	if err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var doc []byte
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT document FROM contacts WHERE id = $1`, id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}

	var contact models.Contact
	if err := json.Unmarshal(doc, &contact); err != nil {
		return nil, fmt.Errorf("unmarshal contact: %w", err)
	}
	return &contact, nil
}
