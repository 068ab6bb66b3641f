// Package middleware applies per-client request budgets to HTTP routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"medid/internal/platform/metrics"
	"medid/internal/ratelimit/models"
	"medid/internal/ratelimit/store/bucket"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/circuit"
	"medid/pkg/platform/httputil"
	"medid/pkg/requestcontext"
)

// BucketStore counts requests in a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
}

// Middleware limits requests per client address. When the primary store keeps
// failing, the breaker opens and an in-process store takes over until the
// primary recovers.
type Middleware struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every limit into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		if b != nil {
			m.breaker = b
		}
	}
}

func New(primary BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Middleware{
		primary:  primary,
		fallback: bucket.NewInMemoryBucketStore(),
		breaker:  circuit.New("ratelimit"),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit rejects a client address with 429 once it exceeds limit under
// scope. Store errors never block a request.
func (m *Middleware) RateLimit(scope string, limit models.Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled || limit.Requests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			result, err := m.allow(ctx, models.NewIPKey(scope, requestcontext.ClientIP(ctx)), limit)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				m.metrics.IncRateLimited(scope)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	result, err := m.primary.Allow(ctx, key, limit)
	if err != nil {
		useFallback, change := m.breaker.RecordFailure()
		if change.Opened {
			m.logger.WarnContext(ctx, "rate limit store unavailable, using in-process fallback", "error", err)
			m.metrics.SetRateLimitDegraded(true)
		}
		if !useFallback {
			return nil, err
		}
		return m.fallback.Allow(ctx, key, limit)
	}

	usePrimary, change := m.breaker.RecordSuccess()
	if change.Closed {
		m.logger.InfoContext(ctx, "rate limit store recovered")
		m.metrics.SetRateLimitDegraded(false)
	}
	if !usePrimary {
		return m.fallback.Allow(ctx, key, limit)
	}
	return result, nil
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
