// Package service imports vCard documents: it decodes each one in its own
// session, persists the contact and reports the outcome.
package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vcardimport/internal/vcard/decoder"
	"vcardimport/internal/vcard/metrics"
	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/parser"
	"vcardimport/internal/vcard/vocabulary"
	dErrors "vcardimport/pkg/domain-errors"
	"vcardimport/pkg/platform/audit"
	"vcardimport/pkg/platform/middleware/auth"
	"vcardimport/pkg/platform/middleware/metadata"
	"vcardimport/pkg/platform/middleware/request"
	"vcardimport/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ContactStore AuditPublisher

// ContactStore persists decoded contacts.
type ContactStore interface {
	Save(ctx context.Context, contact *models.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
}

// AuditPublisher records import activity.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	OutcomeImported = "imported"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

const defaultConcurrency = 4

// BatchResult is the outcome of one document in ImportBatch.
type BatchResult struct {
	Index   int
	Contact *models.Contact
	Err     error
}

type Service struct {
	parser      parser.Parser
	vocab       vocabulary.Repository
	contacts    ContactStore
	tx          ImportTx
	auditor     AuditPublisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	concurrency int
	txTimeout   time.Duration
	db          *sql.DB
}

type Option func(*Service)

// WithDB makes every import run in one database transaction.
func WithDB(db *sql.DB) Option {
	return func(s *Service) {
		s.db = db
	}
}

// WithTx overrides the transactional boundary.
func WithTx(t ImportTx) Option {
	return func(s *Service) {
		s.tx = t
	}
}

func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.txTimeout = d
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithConcurrency bounds how many documents ImportBatch decodes at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(p parser.Parser, vocab vocabulary.Repository, contacts ContactStore, opts ...Option) *Service {
	s := &Service{
		parser:      p,
		vocab:       vocab,
		contacts:    contacts,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("vcardimport.service")
	}
	if s.tx == nil {
		if s.db != nil {
			s.tx = &sqlImportTx{db: s.db, timeout: s.txTimeout}
		} else {
			s.tx = &contextImportTx{timeout: s.txTimeout}
		}
	}
	return s
}

// Import decodes text with a fresh decode session and persists the result.
// Decoding and saving share one transaction; nothing is stored on failure.
func (s *Service) Import(ctx context.Context, text string) (*models.Contact, error) {
	ctx, span := s.tracer.Start(ctx, "vcardimport.service.import", trace.WithAttributes(
		attribute.Int("document_bytes", len(text)),
	))
	defer span.End()

	start := time.Now()
	var contact *models.Contact
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		decoded, err := s.newDecoder().Decode(ctx, text)
		if err != nil {
			return err
		}
		if err := s.contacts.Save(ctx, decoded); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contact")
		}
		contact = decoded
		return nil
	})
	s.metrics.ObserveDecodeLatency(time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		outcome := OutcomeFailed
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			outcome = OutcomeInvalid
		}
		s.metrics.IncrementImport(outcome)
		s.logger.WarnContext(ctx, "contact import failed",
			"outcome", outcome,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		s.emit(ctx, audit.Event{
			Action: string(audit.EventContactImportFailed),
			Reason: outcome,
		})
		return nil, err
	}

	counts := contact.Counts()
	s.metrics.IncrementImport(OutcomeImported)
	s.metrics.ObserveEntities(counts)
	span.SetAttributes(
		attribute.String("contact_id", contact.ID.String()),
		attribute.String("kind", contact.KindValue()),
	)
	s.logger.InfoContext(ctx, "contact imported",
		"contact_id", contact.ID,
		"kind", contact.KindValue(),
		"request_id", request.GetRequestID(ctx),
	)
	s.emit(ctx, audit.Event{
		Action:  string(audit.EventContactImported),
		Subject: contact.ID.String(),
		Details: map[string]string{"kind": contact.KindValue()},
	})
	return contact, nil
}

// ImportBatch imports every text, at most WithConcurrency at a time. A
// failing document is reported in its BatchResult and does not stop the
// others; only cancellation of ctx aborts the batch.
func (s *Service) ImportBatch(ctx context.Context, texts []string) ([]BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "vcardimport.service.import_batch", trace.WithAttributes(
		attribute.Int("documents", len(texts)),
	))
	defer span.End()

	results := make([]BatchResult, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BatchResult{Index: i, Err: err}
				return err
			}
			contact, err := s.Import(gctx, text)
			results[i] = BatchResult{Index: i, Contact: contact, Err: err}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return results, dErrors.Wrap(err, dErrors.CodeTimeout, "import batch aborted")
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("failed", failed))
	return results, nil
}

// Get returns a stored contact.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contact not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contact")
	}
	s.emit(ctx, audit.Event{
		Action:  string(audit.EventContactViewed),
		Subject: id.String(),
	})
	return contact, nil
}

func (s *Service) newDecoder() *decoder.Decoder {
	opts := []decoder.Option{decoder.WithLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, decoder.WithRecorder(s.metrics))
	}
	return decoder.New(s.parser, s.vocab, opts...)
}

// emit stamps request metadata on event and publishes it. Audit failures are
// logged and never fail the caller.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = request.GetRequestID(ctx)
	event.ActorID = auth.GetSubject(ctx)
	if ip := metadata.GetClientIP(ctx); ip != "" {
		if event.Details == nil {
			event.Details = map[string]string{}
		}
		event.Details["client_ip"] = ip
	}
	if err := s.auditor.Emit(context.WithoutCancel(ctx), event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
