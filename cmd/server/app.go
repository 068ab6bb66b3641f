package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	authService "medid/internal/auth/service"
	certificationService "medid/internal/certification/service"
	certificationStore "medid/internal/certification/store"
	"medid/internal/documents"
	"medid/internal/documents/gcs"
	docmemory "medid/internal/documents/memory"
	docpostgres "medid/internal/documents/postgres"
	identityService "medid/internal/identity/service"
	identityStore "medid/internal/identity/store"
	"medid/internal/platform/config"
	"medid/internal/platform/kafka"
	"medid/internal/platform/postgres"
	"medid/internal/storage"
	"medid/pkg/platform/tx"
)

// identityBackend is everything the identity service needs from storage.
type identityBackend interface {
	identityService.Store
	authService.CredentialStore
	authService.IdentityStore
	certificationService.Directory
}

// stores groups the storage-side components chosen by configuration.
type stores struct {
	db            *sql.DB
	runner        tx.Runner
	identities    identityBackend
	certification certificationService.Store
	ledger        documents.Ledger
}

func (s *stores) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func openStores(ctx context.Context, cfg config.Server, logger *slog.Logger) (*stores, error) {
	if cfg.Storage.Driver != "postgres" {
		mem := storage.New()
		logger.Info("using in-memory storage")
		return &stores{
			runner:        mem,
			identities:    mem,
			certification: mem,
			ledger:        docmemory.NewLedger(),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Storage.DatabaseDriver, cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to postgres", "driver", cfg.Storage.DatabaseDriver)
	return &stores{
		db:            db,
		runner:        tx.NewSQLRunner(db, cfg.Storage.StoreTimeout),
		identities:    identityStore.NewPostgres(db, identityStore.WithTimeout(cfg.Storage.StoreTimeout)),
		certification: certificationStore.NewPostgres(db, certificationStore.WithTimeout(cfg.Storage.StoreTimeout)),
		ledger:        docpostgres.NewLedger(db),
	}, nil
}

// documentStore is a documents.Store that may hold a client to release.
type documentStore interface {
	documents.Store
	Close() error
}

type nopCloser struct{ documents.Store }

func (nopCloser) Close() error { return nil }

func openDocumentStore(ctx context.Context, cfg config.Documents, logger *slog.Logger) (documentStore, error) {
	if cfg.Backend != "gcs" {
		return nopCloser{docmemory.New(cfg.BaseURL)}, nil
	}
	store, err := gcs.New(ctx,
		gcs.WithBucket(cfg.GCSBucket),
		gcs.WithCredentialsFile(cfg.GCSCredentials),
		gcs.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("open gcs document store: %w", err)
	}
	return store, nil
}

// openKafka returns nil when no brokers are configured.
func openKafka(ctx context.Context, cfg config.Audit) (*kgo.Client, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	client, err := kafka.NewProducer(ctx, cfg.KafkaBrokers, cfg.Topic)
	if err != nil {
		return nil, errors.Join(errors.New("audit stream unavailable"), err)
	}
	return client, nil
}
