package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"medid/internal/platform/config"
	"medid/internal/platform/kafka"
	"medid/internal/platform/postgres"
)

func migrateCommand() *cobra.Command {
	var partitions int32
	var replicas int16
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and create the audit topic",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := loadConfig()
			logger := commonRun(cfg)
			if err := migrate(cmd.Context(), cfg, logger, partitions, replicas); err != nil {
				logger.Error("migration failed", "error", err)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().Int32Var(&partitions, "audit-partitions", 3, "partitions for a newly created audit topic")
	cmd.Flags().Int16Var(&replicas, "audit-replicas", 1, "replication factor for a newly created audit topic")
	return cmd
}

func migrate(ctx context.Context, cfg config.Server, logger *slog.Logger, partitions int32, replicas int16) error {
	if cfg.Storage.Driver != "postgres" && !cfg.Audit.KafkaEnabled() {
		return errors.New("nothing to migrate: storage is in memory and no kafka brokers are configured")
	}

	if cfg.Storage.Driver == "postgres" {
		db, err := postgres.Open(ctx, cfg.Storage.DatabaseDriver, cfg.Storage.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := postgres.Migrate(ctx, db, logger)
		if err != nil {
			return err
		}
		logger.Info("database up to date", "applied", n)
	}

	if cfg.Audit.KafkaEnabled() {
		client, err := kafka.NewProducer(ctx, cfg.Audit.KafkaBrokers, cfg.Audit.Topic)
		if err != nil {
			return fmt.Errorf("connect to kafka: %w", err)
		}
		defer client.Close()
		if err := kafka.EnsureTopic(ctx, client, cfg.Audit.Topic, partitions, replicas); err != nil {
			return err
		}
		logger.Info("audit topic ready", "topic", cfg.Audit.Topic)
	}
	return nil
}
