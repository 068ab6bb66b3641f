package documents

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"medid/internal/platform/metrics"
)

const (
	defaultReconcileInterval = time.Minute
	defaultReconcileBatch    = 100
	defaultMaxAttempts       = 10
)

// Reconciler periodically deletes orphaned documents recorded in the ledger.
type Reconciler struct {
	ledger   Ledger
	store    Store
	interval time.Duration
	batch    int
	maxTries int
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

func WithInterval(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.batch = n
		}
	}
}

// WithMaxAttempts sets how many failed deletions an orphan gets before it is
// abandoned.
func WithMaxAttempts(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.maxTries = n
		}
	}
}

func WithReconcilerLogger(l *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.logger = l }
}

func WithReconcilerMetrics(m *metrics.Metrics) ReconcilerOption {
	return func(r *Reconciler) { r.metrics = m }
}

func NewReconciler(ledger Ledger, store Store, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		ledger:   ledger,
		store:    store,
		interval: defaultReconcileInterval,
		batch:    defaultReconcileBatch,
		maxTries: defaultMaxAttempts,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reconciles on every tick until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.ReconcileOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "orphaned document reconciliation failed", "error", err)
			}
		}
	}
}

// ReconcileOnce deletes one batch of pending orphans and returns how many were
// resolved. A blob that is already gone counts as resolved; other delete
// failures stay pending and are retried on later passes until the attempt
// budget runs out, then the orphan is abandoned.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (int, error) {
	pending, err := r.ledger.ListPending(ctx, r.batch)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var resolved, failed, abandoned []string
	for _, o := range pending {
		err := r.store.Delete(ctx, o.URL)
		switch {
		case err == nil, errors.Is(err, ErrNotFound):
			resolved = append(resolved, o.ID)
		default:
			r.logger.WarnContext(ctx, "failed to delete orphaned document",
				"orphan_id", o.ID,
				"url", o.URL,
				"attempts", o.Attempts+1,
				"error", err,
			)
			if o.Attempts+1 >= r.maxTries {
				abandoned = append(abandoned, o.ID)
				continue
			}
			failed = append(failed, o.ID)
		}
	}

	if len(failed) > 0 {
		if err := r.ledger.MarkAttempted(ctx, failed); err != nil {
			return 0, err
		}
	}
	if len(abandoned) > 0 {
		if err := r.ledger.MarkAbandoned(ctx, abandoned, r.now()); err != nil {
			return 0, err
		}
		r.metrics.AddOrphansAbandoned(len(abandoned))
		r.logger.ErrorContext(ctx, "abandoned orphaned documents after repeated delete failures",
			"count", len(abandoned),
			"max_attempts", r.maxTries,
		)
	}
	if len(resolved) > 0 {
		if err := r.ledger.MarkResolved(ctx, resolved, r.now()); err != nil {
			return 0, err
		}
		r.metrics.AddOrphansReconciled(len(resolved))
		r.logger.InfoContext(ctx, "orphaned documents deleted", "count", len(resolved))
	}
	return len(resolved), nil
}
