package documents

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"medid/internal/platform/metrics"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/requestcontext"
)

const defaultUploadTimeout = 15 * time.Second

// Attacher validates and uploads documents with a bounded timeout and tracks
// uploads that end up unreferenced.
type Attacher struct {
	store   Store
	ledger  Ledger
	timeout time.Duration
	maxSize int64
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Attacher.
type Option func(*Attacher)

func WithLedger(l Ledger) Option {
	return func(a *Attacher) { a.ledger = l }
}

func WithTimeout(d time.Duration) Option {
	return func(a *Attacher) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithMaxSize(n int64) Option {
	return func(a *Attacher) {
		if n > 0 {
			a.maxSize = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Attacher) { a.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Attacher) { a.metrics = m }
}

func NewAttacher(store Store, opts ...Option) *Attacher {
	a := &Attacher{
		store:   store,
		timeout: defaultUploadTimeout,
		maxSize: DefaultMaxSize,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Validate checks a document before any upload is attempted.
func (a *Attacher) Validate(doc Document) error {
	switch {
	case doc.FileName == "":
		return dErrors.Wrap(ErrMissingFileName, dErrors.CodeValidation, "document file name is required")
	case len(doc.Data) == 0:
		return dErrors.Wrap(ErrEmpty, dErrors.CodeValidation, "document is empty")
	case int64(len(doc.Data)) > a.maxSize:
		return dErrors.Wrap(ErrTooLarge, dErrors.CodeValidation, "document exceeds maximum allowed size")
	}
	if !AllowedContentTypes[contentType(doc)] {
		return dErrors.Wrap(ErrUnsupportedType, dErrors.CodeValidation, "document must be a PDF or image")
	}
	return nil
}

// Attach uploads doc under folder and returns its durable URL. Failures map to
// CodeUpload, or CodeTimeout when the upload exceeded its time budget.
func (a *Attacher) Attach(ctx context.Context, doc Document, folder string) (string, error) {
	if err := a.Validate(doc); err != nil {
		return "", err
	}

	uploadCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	url, err := a.store.Put(uploadCtx, Object{
		Folder:      folder,
		Key:         uuid.NewString() + "-" + sanitizeFileName(doc.FileName),
		ContentType: contentType(doc),
		Data:        doc.Data,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(uploadCtx.Err(), context.DeadlineExceeded) {
			a.logger.WarnContext(ctx, "document upload timed out",
				"request_id", requestcontext.RequestID(ctx),
				"timeout", a.timeout.String(),
			)
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "document upload timed out")
		}
		a.logger.ErrorContext(ctx, "document upload failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return "", dErrors.Wrap(err, dErrors.CodeUpload, "document upload failed")
	}
	return url, nil
}

// Abandon records url as orphaned so the Reconciler can delete it. It never
// fails the caller; a ledger error is logged.
func (a *Attacher) Abandon(ctx context.Context, url, reason string) {
	if url == "" {
		return
	}
	a.metrics.IncOrphanedDocument()
	if a.ledger == nil {
		a.logger.WarnContext(ctx, "orphaned document not tracked",
			"request_id", requestcontext.RequestID(ctx),
			"url", url,
			"reason", reason,
		)
		return
	}
	o := &Orphan{
		ID:         uuid.NewString(),
		URL:        url,
		Reason:     reason,
		RecordedAt: requestcontext.Now(ctx),
	}
	// Record even when the request context is already cancelled.
	if err := a.ledger.Record(context.WithoutCancel(ctx), o); err != nil {
		a.logger.ErrorContext(ctx, "failed to record orphaned document",
			"request_id", requestcontext.RequestID(ctx),
			"url", url,
			"error", err,
		)
	}
}

func contentType(doc Document) string {
	if doc.ContentType != "" && doc.ContentType != "application/octet-stream" {
		return doc.ContentType
	}
	ct, _, _ := strings.Cut(http.DetectContentType(doc.Data), ";")
	return ct
}
