// Package app assembles the importer's stores, audit sink and service from
// configuration. Both the HTTP server and the batch CLI start from here.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"vcardimport/internal/platform/config"
	platformredis "vcardimport/internal/platform/redis"
	"vcardimport/internal/vcard/metrics"
	"vcardimport/internal/vcard/parser"
	"vcardimport/internal/vcard/service"
	"vcardimport/internal/vcard/store"
	contactstore "vcardimport/internal/vcard/store/contact"
	vocabstore "vcardimport/internal/vcard/store/vocabulary"
	"vcardimport/internal/vcard/vocabulary"
	"vcardimport/pkg/platform/audit"
	"vcardimport/pkg/platform/audit/publisher"
	"vcardimport/pkg/platform/audit/store/kafka"
	auditmemory "vcardimport/pkg/platform/audit/store/memory"
)

const (
	auditBreakerThreshold = 5
	auditBreakerCooldown  = 30 * time.Second
	auditTopicPartitions  = 3
	auditTopicReplication = 1
)

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// App holds the wired importer and the resources it owns.
type App struct {
	Service *service.Service
	Metrics *metrics.Metrics
	Health  []HealthCheck

	closers []func()
}

// Options tune New for the calling binary.
type Options struct {
	// Metrics may be nil; the CLI does not export them.
	Metrics *metrics.Metrics
}

// New connects every backend the configuration selects. Unconfigured
// backends fall back to in-process stores.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{Metrics: opts.Metrics}

	var db *sql.DB
	if cfg.Postgres.URL != "" {
		var err error
		db, err = openPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.Health = append(a.Health, HealthCheck{Name: "postgres", Check: db.PingContext})
		logger.Info("using postgres stores")
	}

	vocab, err := a.vocabularyRepository(ctx, cfg, db, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var contacts service.ContactStore = contactstore.NewInMemoryStore()
	if db != nil {
		contacts = contactstore.NewPostgres(db)
	}

	auditor, err := a.auditPublisher(ctx, cfg.Kafka, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	svcOpts := []service.Option{
		service.WithAuditPublisher(auditor),
		service.WithLogger(logger),
		service.WithConcurrency(cfg.Import.Concurrency),
		service.WithTxTimeout(cfg.Import.TxTimeout),
	}
	if db != nil {
		svcOpts = append(svcOpts, service.WithDB(db))
	}
	if a.Metrics != nil {
		svcOpts = append(svcOpts, service.WithMetrics(a.Metrics))
	}
	a.Service = service.New(parser.NewReader(), vocab, contacts, svcOpts...)
	return a, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// vocabularyRepository prefers Postgres, then Redis, then memory. Shared backends sit behind an LRU.
func (a *App) vocabularyRepository(ctx context.Context, cfg config.Config, db *sql.DB, logger *slog.Logger) (vocabulary.Repository, error) {
	var next vocabulary.Repository
	switch {
	case db != nil:
		next = vocabstore.NewPostgres(db)
	case cfg.Redis.URL != "":
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.Health = append(a.Health, HealthCheck{Name: "redis", Check: client.Health})
		logger.Info("using redis vocabulary store")
		next = vocabstore.NewRedis(client.Client)
	default:
		return vocabstore.NewInMemoryStore(), nil
	}

	if cfg.Import.VocabCacheSize <= 0 {
		return next, nil
	}
	cached, err := vocabstore.NewCached(next, cfg.Import.VocabCacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func (a *App) auditPublisher(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*publisher.Publisher, error) {
	var sink audit.Store = auditmemory.NewInMemoryStore()
	pubOpts := []publisher.Option{publisher.WithLogger(logger)}

	if len(cfg.Brokers) > 0 {
		kstore, err := kafka.New(cfg.Brokers, cfg.AuditTopic)
		if err != nil {
			return nil, err
		}
		if err := kstore.EnsureTopic(ctx, auditTopicPartitions, auditTopicReplication); err != nil {
			kstore.Close()
			return nil, err
		}
		a.closers = append(a.closers, kstore.Close)
		a.Health = append(a.Health, HealthCheck{Name: "kafka", Check: kstore.Ping})
		logger.Info("publishing audit events to kafka", "topic", cfg.AuditTopic)
		sink = kstore
		pubOpts = append(pubOpts,
			publisher.WithAsyncBuffer(cfg.AuditBuffer),
			publisher.WithBreaker(publisher.NewBreaker(auditBreakerThreshold, auditBreakerCooldown)),
		)
	}

	pub := publisher.NewPublisher(sink, pubOpts...)
	a.closers = append(a.closers, pub.Close)
	return pub, nil
}

// Ready runs every health check and joins the failures.
func (a *App) Ready(ctx context.Context) error {
	var errs []error
	for _, h := range a.Health {
		if err := h.Check(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases resources in reverse order of acquisition. The audit
// publisher is drained before its sink closes.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
