package vocabulary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vcardimport/internal/vcard/models"
	"vcardimport/pkg/platform/sentinel"
	"vcardimport/pkg/platform/tx"
)

// PostgresStore persists vocabulary entities in PostgreSQL. Lookups join the
// transaction carried by ctx, if any. Creates always autocommit on the pool,
// so concurrent imports never hold row locks on shared vocabulary.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed vocabulary store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByValue(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	q := tx.Resolve(ctx, s.db)
	v := &models.Vocabulary{Kind: kind, Value: value}
	err := q.QueryRowContext(ctx,
		`SELECT id FROM vocabulary WHERE kind = $1 AND value = $2`,
		string(kind), value,
	).Scan(&v.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vocabulary: %w", err)
	}
	return v, nil
}

// Create inserts (kind, value) or returns the existing row when another
// session created it first. The row is committed even if the caller's
// transaction later rolls back.
func (s *PostgresStore) Create(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	v := &models.Vocabulary{Kind: kind, Value: value}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO vocabulary (id, kind, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, value) DO UPDATE SET value = EXCLUDED.value
		RETURNING id
	`, uuid.New(), string(kind), value).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("create vocabulary: %w", err)
	}
	return v, nil
}
