// Package publisher emits audit events to a Store, either synchronously or
// through a bounded buffer drained by a background worker.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "vcardimport/pkg/platform/audit"
	"vcardimport/pkg/platform/audit/worker"
)

var (
	ErrBufferFull  = errors.New("audit buffer full")
	ErrClosed      = errors.New("audit publisher closed")
	ErrCircuitOpen = errors.New("audit sink unavailable")
)

// Publisher stamps and forwards audit events.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	breaker *Breaker

	bufferSize int
	events     chan audit.Event
	done       chan struct{}

	mu     sync.RWMutex
	closed bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithBreaker guards the store with b.
func WithBreaker(b *Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

// NewPublisher creates a publisher over store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.events = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(storeFunc(p.append), p.events, p.logger)
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit stamps event with an ID, timestamp and category when missing, then
// persists it (sync) or enqueues it (async).
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if p.events == nil {
		return p.append(ctx, event)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.events <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

func (p *Publisher) append(ctx context.Context, event audit.Event) error {
	if p.breaker != nil && !p.breaker.Allow() {
		return ErrCircuitOpen
	}
	if err := p.store.Append(ctx, event); err != nil {
		if p.breaker != nil {
			p.breaker.RecordFailure()
		}
		return fmt.Errorf("append audit event: %w", err)
	}
	if p.breaker != nil {
		p.breaker.RecordSuccess()
	}
	return nil
}

// Close stops accepting events and, in async mode, waits until the buffer
// is drained.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.events != nil {
		close(p.events)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}

type storeFunc func(ctx context.Context, event audit.Event) error

func (f storeFunc) Append(ctx context.Context, event audit.Event) error {
	return f(ctx, event)
}
