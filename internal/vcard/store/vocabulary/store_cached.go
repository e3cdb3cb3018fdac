package vocabulary

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"vcardimport/internal/vcard/models"
	vcardvocab "vcardimport/internal/vcard/vocabulary"
)

// DefaultCacheSize bounds the number of entities kept by CachedStore.
const DefaultCacheSize = 4096

type cacheKey struct {
	kind  models.VocabularyKind
	value string
}

// CachedStore is a read-through LRU in front of another Repository, shared
// across decode sessions. Every entity the next store returns is committed,
// so results are cached whether or not ctx carries a transaction.
type CachedStore struct {
	next  vcardvocab.Repository
	cache *lru.Cache[cacheKey, *models.Vocabulary]
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next vcardvocab.Repository, size int) (*CachedStore, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, *models.Vocabulary](size)
	if err != nil {
		return nil, fmt.Errorf("create vocabulary lru: %w", err)
	}
	return &CachedStore{next: next, cache: cache}, nil
}

func (s *CachedStore) FindByValue(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	k := cacheKey{kind, value}
	if v, ok := s.cache.Get(k); ok {
		return v, nil
	}
	v, err := s.next.FindByValue(ctx, kind, value)
	if err != nil {
		return nil, err
	}
	s.cache.Add(k, v)
	return v, nil
}

func (s *CachedStore) Create(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	v, err := s.next.Create(ctx, kind, value)
	if err != nil {
		return nil, err
	}
	s.cache.Add(cacheKey{kind, value}, v)
	return v, nil
}

// Purge drops every cached entity.
func (s *CachedStore) Purge() {
	s.cache.Purge()
}

// Len returns the number of cached entities.
func (s *CachedStore) Len() int {
	return s.cache.Len()
}
