package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"medid/internal/audit"
	"medid/internal/auth/device"
	authHandler "medid/internal/auth/handler"
	authService "medid/internal/auth/service"
	"medid/internal/auth/store/revocation"
	certificationHandler "medid/internal/certification/handler"
	certificationService "medid/internal/certification/service"
	"medid/internal/documents"
	identityHandler "medid/internal/identity/handler"
	identityService "medid/internal/identity/service"
	jwttoken "medid/internal/jwt_token"
	"medid/internal/platform/config"
	"medid/internal/platform/httpserver"
	"medid/internal/platform/metrics"
	"medid/internal/platform/redis"
	rlMiddleware "medid/internal/ratelimit/middleware"
	rlModels "medid/internal/ratelimit/models"
	"medid/internal/ratelimit/service/authlockout"
	lockoutStore "medid/internal/ratelimit/store/authlockout"
	"medid/internal/ratelimit/store/bucket"
	httptransport "medid/internal/transport/http"
	"medid/pkg/secrets"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeTick       = 15 * time.Minute
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run:   serveRun,
	}
}

func serveRun(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := commonRun(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	health := map[string]httptransport.HealthCheck{}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	if st.db != nil {
		health["postgres"] = st.db.PingContext
	}

	docStore, err := openDocumentStore(ctx, cfg.Documents, logger)
	if err != nil {
		return err
	}
	defer docStore.Close()

	attacher := documents.NewAttacher(docStore,
		documents.WithLedger(st.ledger),
		documents.WithTimeout(cfg.Documents.UploadTimeout),
		documents.WithMaxSize(cfg.Documents.MaxSize),
		documents.WithLogger(logger),
		documents.WithMetrics(m),
	)
	reconciler := documents.NewReconciler(st.ledger, docStore,
		documents.WithInterval(cfg.Documents.ReconcileInterval),
		documents.WithReconcilerLogger(logger),
		documents.WithReconcilerMetrics(m),
	)

	// audit
	publisher := audit.NewPublisher(cfg.Audit.BufferSize,
		audit.WithPublisherLogger(logger),
		audit.WithPublisherMetrics(m),
	)
	sinks := audit.MultiSink{audit.NewLogSink(logger)}
	if st.db != nil {
		sinks = append(sinks, audit.NewPostgresSink(st.db))
	}
	producer, err := openKafka(ctx, cfg.Audit)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
		sinks = append(sinks, audit.NewKafkaSink(producer, cfg.Audit.Topic))
		health["kafka"] = producer.Ping
		logger.Info("streaming audit events to kafka", "topic", cfg.Audit.Topic)
	}
	auditWorker := audit.NewWorker(sinks, publisher.Events(), logger)

	// shared by revocation and rate limiting when configured
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = redisClient.Health
	}

	// revocation
	var trl authService.RevocationList
	purgers := map[string]purgeFunc{}
	switch cfg.Auth.RevocationBackend {
	case "redis":
		trl = revocation.NewRedisTRL(redisClient, revocation.WithRedisMetrics(m))
	case "postgres":
		pg := revocation.NewPostgresTRL(st.db, revocation.WithPostgresMetrics(m))
		trl = pg
		purgers["revocations"] = pg.PurgeExpired
	default:
		trl = revocation.NewInMemoryTRL(time.Now)
	}
	logger.Info("token revocation backend", "backend", cfg.Auth.RevocationBackend)

	// rate limiting
	var buckets rlMiddleware.BucketStore = bucket.NewInMemoryBucketStore()
	if redisClient != nil {
		buckets = bucket.NewRedisBucketStore(redisClient)
	}
	publicLimit := rlMiddleware.New(buckets, logger,
		rlMiddleware.WithMetrics(m),
		rlMiddleware.WithDisabled(cfg.RateLimit.Disabled),
	).RateLimit("public", rlModels.Limit{Requests: cfg.RateLimit.PublicRequests, Window: cfg.RateLimit.PublicWindow})

	var lockouts authlockout.Store = lockoutStore.New()
	if st.db != nil {
		pg := lockoutStore.NewPostgres(st.db)
		lockouts = pg
		// a lock never outlives its window plus lock duration
		horizon := cfg.RateLimit.LoginWindow + cfg.RateLimit.LoginLockDuration
		purgers["auth_lockouts"] = func(ctx context.Context) (int64, error) {
			return pg.PurgeStale(ctx, time.Now().Add(-horizon))
		}
	}
	loginLimiter, err := authlockout.New(lockouts,
		authlockout.WithLogger(logger),
		authlockout.WithAuditPublisher(publisher),
		authlockout.WithMetrics(m),
		authlockout.WithPolicy(rlModels.LockoutPolicy{
			Attempts:     cfg.RateLimit.LoginMaxAttempts,
			Window:       cfg.RateLimit.LoginWindow,
			LockDuration: cfg.RateLimit.LoginLockDuration,
		}),
	)
	if err != nil {
		return err
	}

	signingKey := cfg.Auth.JWTSigningKey
	if signingKey == "" {
		signingKey, err = secrets.Generate()
		if err != nil {
			return err
		}
		logger.Warn("MEDID_JWT_SIGNING_KEY not set, using an ephemeral key; tokens will not survive a restart")
	}
	jwtService := jwttoken.NewJWTService(signingKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	hasher := secrets.NewBcrypt(cfg.Auth.BcryptCost)

	identities, err := identityService.New(st.identities, st.certification, st.runner, hasher,
		identityService.WithLogger(logger),
		identityService.WithAuditPublisher(publisher),
		identityService.WithMetrics(m),
		identityService.WithDocumentAttacher(attacher),
	)
	if err != nil {
		return err
	}
	certifications, err := certificationService.New(st.certification, st.identities, st.runner,
		certificationService.WithLogger(logger),
		certificationService.WithAuditPublisher(publisher),
		certificationService.WithMetrics(m),
		certificationService.WithDocumentAttacher(attacher),
	)
	if err != nil {
		return err
	}
	authOpts := []authService.Option{
		authService.WithLogger(logger),
		authService.WithAuditPublisher(publisher),
		authService.WithMetrics(m),
		authService.WithTokenTTL(cfg.Auth.TokenTTL),
		authService.WithDeviceService(device.NewService(true)),
	}
	if !cfg.RateLimit.Disabled {
		authOpts = append(authOpts, authService.WithLoginLimiter(loginLimiter))
	}
	auth, err := authService.New(st.identities, st.identities, hasher, jwtService, trl, authOpts...)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:        logger,
		Metrics:       m,
		Gatherer:      registry,
		Validator:     jwttoken.NewJWTServiceAdapter(jwtService),
		Revocations:   auth,
		Health:        health,
		PublicLimit:   publicLimit,
		Auth:          authHandler.New(auth, logger),
		Identity:      identityHandler.New(identities, logger, cfg.Documents.MaxSize),
		Certification: certificationHandler.New(certifications, logger, cfg.Documents.MaxSize),
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting medid", "addr", cfg.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		err := srv.Shutdown(shutdownCtx)
		// no more requests can emit; let the worker flush what is buffered
		publisher.Close()
		return err
	})
	// the worker stops once the publisher is closed after shutdown
	g.Go(func() error {
		return auditWorker.Run(context.WithoutCancel(gctx))
	})
	g.Go(func() error {
		reconciler.Run(gctx)
		return nil
	})
	for name, purge := range purgers {
		g.Go(func() error {
			runPurge(gctx, name, purge, logger)
			return nil
		})
	}
	return g.Wait()
}

type purgeFunc func(context.Context) (int64, error)

// runPurge deletes expired rows from a PostgreSQL-backed table on a fixed tick.
func runPurge(ctx context.Context, name string, purge purgeFunc, logger *slog.Logger) {
	ticker := time.NewTicker(purgeTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purge(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.ErrorContext(ctx, "failed to purge expired rows", "table", name, "error", err)
				}
				continue
			}
			if n > 0 {
				logger.DebugContext(ctx, "purged expired rows", "table", name, "count", n)
			}
		}
	}
}
