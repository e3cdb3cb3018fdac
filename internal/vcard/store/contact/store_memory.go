// Package contact persists decoded contacts.
package contact

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"vcardimport/internal/vcard/models"
	"vcardimport/pkg/platform/sentinel"
)

// InMemoryStore keeps contacts in a map.
type InMemoryStore struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]*models.Contact
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{contacts: make(map[uuid.UUID]*models.Contact)}
}

func (s *InMemoryStore) Save(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.ID] = contact
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c, nil
}
