// Package documents attaches uploaded supporting documents to registrations
// and certification requests. Documents are stored outside the relational
// store; only their durable URL is persisted. Uploads happen before the
// database transaction, so a failed transaction can leave an orphaned blob:
// those are recorded in a ledger and removed later by the Reconciler.
package documents

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// CertificationFolder is the folder certification documents are stored under.
const CertificationFolder = "certification_requests"

// DefaultMaxSize is the largest accepted document.
const DefaultMaxSize = 10 << 20

var (
	ErrNotFound        = errors.New("document not found")
	ErrTooLarge        = errors.New("document exceeds maximum allowed size")
	ErrEmpty           = errors.New("document is empty")
	ErrUnsupportedType = errors.New("document content type is not allowed")
	ErrMissingFileName = errors.New("document file name is required")
	ErrForeignURL      = errors.New("url does not belong to this store")
)

// AllowedContentTypes lists the accepted document MIME types.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
}

// Document is an uploaded file payload.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Object is what a Store persists: a document under a folder and key.
type Object struct {
	Folder      string
	Key         string
	ContentType string
	Data        []byte
}

// Name is the object path within the store.
func (o Object) Name() string {
	return path.Join(o.Folder, o.Key)
}

// Store persists document bytes and returns a durable URL.
type Store interface {
	Put(ctx context.Context, obj Object) (string, error)
	Delete(ctx context.Context, url string) error
}

// Orphan is an uploaded document no committed row refers to.
type Orphan struct {
	ID         string
	URL        string
	Reason     string
	RecordedAt time.Time
	Attempts   int
	ResolvedAt *time.Time
	// AbandonedAt is set once deletion has failed too often to keep retrying.
	AbandonedAt *time.Time
}

// Ledger records orphaned documents until they are deleted or abandoned.
// ListPending returns the least attempted orphans first so a few
// undeletable blobs cannot starve the rest.
type Ledger interface {
	Record(ctx context.Context, o *Orphan) error
	ListPending(ctx context.Context, limit int) ([]*Orphan, error)
	MarkResolved(ctx context.Context, ids []string, at time.Time) error
	MarkAttempted(ctx context.Context, ids []string) error
	MarkAbandoned(ctx context.Context, ids []string, at time.Time) error
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "document"
	}
	return out
}
