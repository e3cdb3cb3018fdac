package vocabulary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"vcardimport/internal/vcard/models"
	"vcardimport/pkg/platform/sentinel"
)

const (
	// Redis key prefix for vocabulary ids: vocab:<kind>:<value>
	vocabularyKeyPrefix = "vocab:"
)

// RedisStore keeps vocabulary ids in Redis so several importer instances
// share one set of entities.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed vocabulary store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func vocabularyKey(kind models.VocabularyKind, value string) string {
	return vocabularyKeyPrefix + string(kind) + ":" + value
}

func (s *RedisStore) FindByValue(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	raw, err := s.client.Get(ctx, vocabularyKey(kind, value)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vocabulary: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary id: %w", err)
	}
	return &models.Vocabulary{ID: id, Kind: kind, Value: value}, nil
}

// Create uses SETNX so the first writer wins; losers read the winner's id.
func (s *RedisStore) Create(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	key := vocabularyKey(kind, value)
	id := uuid.New()
	ok, err := s.client.SetNX(ctx, key, id.String(), 0).Result()
	if err != nil {
		return nil, fmt.Errorf("create vocabulary: %w", err)
	}
	if !ok {
		return s.FindByValue(ctx, kind, value)
	}
	return &models.Vocabulary{ID: id, Kind: kind, Value: value}, nil
}
