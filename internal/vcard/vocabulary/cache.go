// Package vocabulary deduplicates shared lookup values within one decode
// session.
package vocabulary

import (
	"context"
	"errors"
	"fmt"

	"vcardimport/internal/vcard/models"
	"vcardimport/pkg/platform/sentinel"
)

// Repository finds and creates vocabulary entities. FindByValue returns
// sentinel.ErrNotFound when no entity exists. Create is idempotent and
// returns a committed entity, independent of any transaction in ctx.
type Repository interface {
	FindByValue(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error)
	Create(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error)
}

// Recorder receives cache lookup outcomes.
type Recorder interface {
	IncrementVocabularyHit(kind string)
	IncrementVocabularyMiss(kind string)
	IncrementVocabularyCreated(kind string)
}

type key struct {
	kind  models.VocabularyKind
	value string
}

// Cache is a session-scoped get-or-create map over a Repository. It holds at
// most one entity per (kind, value). Not safe for concurrent use.
type Cache struct {
	repo     Repository
	entries  map[key]*models.Vocabulary
	recorder Recorder
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder reports hits, misses and creations to r.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) {
		c.recorder = r
	}
}

// NewCache returns an empty cache backed by repo.
func NewCache(repo Repository, opts ...Option) *Cache {
	c := &Cache{
		repo:    repo,
		entries: make(map[key]*models.Vocabulary),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the session's entity for (kind, value), looking it up in
// the repository and creating it there on first use.
func (c *Cache) Resolve(ctx context.Context, kind models.VocabularyKind, value string) (*models.Vocabulary, error) {
	k := key{kind: kind, value: value}
	if v, ok := c.entries[k]; ok {
		c.hit(kind)
		return v, nil
	}
	c.miss(kind)

	v, err := c.repo.FindByValue(ctx, kind, value)
	if errors.Is(err, sentinel.ErrNotFound) {
		v, err = c.repo.Create(ctx, kind, value)
		if err != nil {
			return nil, fmt.Errorf("create %s %q: %w", kind, value, err)
		}
		c.created(kind)
	} else if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", kind, value, err)
	}

	c.entries[k] = v
	return v, nil
}

// Len returns the number of cached entities.
func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) hit(kind models.VocabularyKind) {
	if c.recorder != nil {
		c.recorder.IncrementVocabularyHit(kind.String())
	}
}

func (c *Cache) miss(kind models.VocabularyKind) {
	if c.recorder != nil {
		c.recorder.IncrementVocabularyMiss(kind.String())
	}
}

func (c *Cache) created(kind models.VocabularyKind) {
	if c.recorder != nil {
		c.recorder.IncrementVocabularyCreated(kind.String())
	}
}
