// Package vocabulary holds the durable Repository implementations behind the
// decode session's vocabulary cache.
package vocabulary

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"vcardimport/internal/vcard/models"
	"vcardimport/pkg/platform/sentinel"
)

type memoryKey struct {
	kind  models.VocabularyKind
	value string
}

// InMemoryStore is a process-local Repository. Create is get-or-create, so
// concurrent sessions racing on one value end up with the same entity.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[memoryKey]*models.Vocabulary
}

// NewInMemoryStore returns an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[memoryKey]*models.Vocabulary)}
}

func (s *InMemoryStore) FindByValue(_ context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[memoryKey{kind, value}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return v, nil
}

func (s *InMemoryStore) Create(_ context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memoryKey{kind, value}
	if v, ok := s.entries[k]; ok {
		return v, nil
	}
	v := &models.Vocabulary{ID: uuid.New(), Kind: kind, Value: value}
	s.entries[k] = v
	return v, nil
}

// Len returns the number of stored entities.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
