// Package decoder turns one vCard document into a models.Contact graph.
//
// A Decoder is one decode session: it owns the vocabulary cache that makes
// shared values (types, protocols, tags...) reference-unique across every
// entity it produces. Create a new Decoder per document; a Decoder is not
// safe for concurrent use.
package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/normalize"
	"vcardimport/internal/vcard/parser"
	"vcardimport/internal/vcard/vocabulary"
	dErrors "vcardimport/pkg/domain-errors"
)

var (
	// ErrSourceFormat means the text does not start with BEGIN:.
	ErrSourceFormat = errors.New("document does not start with " + normalize.BeginMarker)
	// ErrParse means the tokenizer rejected the document.
	ErrParse = errors.New("document could not be parsed")
)

// Decoder decodes a single document per session.
type Decoder struct {
	parser parser.Parser
	cache  *vocabulary.Cache
	logger *slog.Logger
}

// Option configures a Decoder.
type Option func(*decoderConfig)

type decoderConfig struct {
	logger    *slog.Logger
	cacheOpts []vocabulary.Option
}

// WithLogger sets the logger used for field anomalies.
func WithLogger(logger *slog.Logger) Option {
	return func(c *decoderConfig) {
		c.logger = logger
	}
}

// WithRecorder reports vocabulary cache activity to r.
func WithRecorder(r vocabulary.Recorder) Option {
	return func(c *decoderConfig) {
		c.cacheOpts = append(c.cacheOpts, vocabulary.WithRecorder(r))
	}
}

// New creates a decode session over p and repo.
func New(p parser.Parser, repo vocabulary.Repository, opts ...Option) *Decoder {
	cfg := decoderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Decoder{
		parser: p,
		cache:  vocabulary.NewCache(repo, cfg.cacheOpts...),
		logger: cfg.logger,
	}
}

type rule func(ctx context.Context, card *parser.Card, contact *models.Contact) error

// Decode normalizes, tokenizes and decodes text. Malformed fields degrade to
// best-effort values and never fail the decode; only an unparseable document
// or a repository failure does, and then no contact is returned.
func (d *Decoder) Decode(ctx context.Context, text string) (*models.Contact, error) {
	normalized := normalize.Normalize(text)
	if normalized == "" {
		return nil, dErrors.Wrap(ErrSourceFormat, dErrors.CodeInvalidInput, "vcard must start with "+normalize.BeginMarker)
	}

	card, err := d.parser.Parse(normalized)
	if err != nil {
		return nil, dErrors.Wrap(fmt.Errorf("%w: %w", ErrParse, err), dErrors.CodeInvalidInput, "vcard could not be parsed")
	}

	contact := models.NewContact()
	rules := []rule{
		d.decodeMultiInstance,
		d.decodeUID,
		d.decodeBirthday,
		d.decodeAnniversary,
		d.decodePhones,
		d.decodeRelations,
		d.decodeKind,
		d.decodeName,
		d.decodeNicknames,
		d.decodeGender,
		d.decodeAddresses,
		d.decodeIms,
		d.decodeTags,
	}
	for _, r := range rules {
		if err := r(ctx, card, contact); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve vocabulary")
		}
	}
	return contact, nil
}
