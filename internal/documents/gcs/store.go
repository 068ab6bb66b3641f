// Package gcs stores documents in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"medid/internal/documents"
)

// Store writes documents as objects in one bucket. URLs have the form
// https://storage.googleapis.com/<bucket>/<folder>/<key>.
type Store struct {
	client          *storage.Client
	bucket          *storage.BucketHandle
	bucketName      string
	credentialsFile string
	logger          *slog.Logger
}

// OptionFunc configures a Store.
type OptionFunc func(*Store)

func WithBucket(name string) OptionFunc {
	return func(s *Store) { s.bucketName = name }
}

func WithCredentialsFile(path string) OptionFunc {
	return func(s *Store) { s.credentialsFile = path }
}

func WithLogger(l *slog.Logger) OptionFunc {
	return func(s *Store) { s.logger = l }
}

// New connects to GCS and binds the configured bucket.
func New(ctx context.Context, opts ...OptionFunc) (*Store, error) {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.bucketName == "" {
		return nil, errors.New("gcs documents: bucket not set")
	}

	var clientOpts []option.ClientOption
	if s.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(s.credentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs documents: failed in creating storage client: %w", err)
	}
	s.client = client
	s.bucket = client.Bucket(s.bucketName)
	return s, nil
}

func (s *Store) urlPrefix() string {
	return "https://storage.googleapis.com/" + s.bucketName + "/"
}

func (s *Store) Put(ctx context.Context, obj documents.Object) (string, error) {
	name := obj.Name()
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = obj.ContentType
	if _, err := w.Write(obj.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object writer %s: %w", name, err)
	}
	s.logger.DebugContext(ctx, "document stored", "bucket", s.bucketName, "object", name, "bytes", len(obj.Data))
	return s.urlPrefix() + name, nil
}

func (s *Store) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.urlPrefix())
	if !ok {
		return documents.ErrForeignURL
	}
	if err := s.bucket.Object(name).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return documents.ErrNotFound
		}
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	return nil
}

// Close releases the GCS client.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
