package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"medid/internal/platform/metrics"
	"medid/pkg/requestcontext"
)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

// Sink persists or forwards audit events.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Publisher enqueues audit events onto a buffered channel drained by a
// Worker. Emit never blocks the request path: when the buffer is full the
// event is dropped and counted.
type Publisher struct {
	inbox   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
}

type PublisherOption func(*Publisher)

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(buffer int, opts ...PublisherOption) *Publisher {
	if buffer <= 0 {
		buffer = 1
	}
	p := &Publisher{
		inbox:  make(chan Event, buffer),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps the event with request metadata and enqueues it.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.metrics.IncAuditDropped()
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"identity_id", event.IdentityID.String(),
		)
		return nil
	}
}

// Events exposes the queue for a Worker.
func (p *Publisher) Events() <-chan Event {
	return p.inbox
}

// Close stops accepting events. Buffered events remain for the worker.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
}

// Worker drains a Publisher into a Sink.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
	// writeTimeout bounds each sink write.
	writeTimeout time.Duration
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger, writeTimeout: 5 * time.Second}
}

// Run writes events until the inbox is closed or ctx is cancelled. Sink
// failures are logged and do not stop the worker. After cancellation the
// events already buffered are flushed with a fresh deadline.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.write(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.inbox:
			if !ok {
				return
			}
			w.write(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) write(ctx context.Context, event Event) {
	writeCtx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	defer cancel()
	if err := w.sink.Write(writeCtx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to write audit event",
			"action", event.Action,
			"identity_id", event.IdentityID.String(),
			"error", err,
		)
	}
}
