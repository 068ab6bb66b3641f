package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"medid/internal/audit"
	identityService "medid/internal/identity/service"
	"medid/internal/platform/config"
	"medid/pkg/requestcontext"
	"medid/pkg/secrets"
)

type seedFlags struct {
	login       string
	contact     string
	displayName string
	accessLevel string
}

func seedAdminCommand() *cobra.Command {
	var f seedFlags
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an administrator account",
		Long: "Create an administrator account. The secret is read from " +
			"MEDID_ADMIN_SECRET; when unset a random one is generated and printed once.",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := loadConfig()
			logger := commonRun(cfg)
			if err := seedAdmin(cmd.Context(), cfg, logger, f); err != nil {
				logger.Error("seed-admin failed", "error", err)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&f.login, "login", "", "administrator login (required)")
	cmd.Flags().StringVar(&f.contact, "contact", "", "administrator contact email (required)")
	cmd.Flags().StringVar(&f.displayName, "display-name", "", "display name, derived from the contact when empty")
	cmd.Flags().StringVar(&f.accessLevel, "access-level", "full", "reviewer access level")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("contact")
	return cmd
}

func seedAdmin(ctx context.Context, cfg config.Server, logger *slog.Logger, f seedFlags) error {
	if cfg.Storage.Driver != "postgres" {
		logger.Warn("in-memory storage is discarded when this command exits")
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	secret := os.Getenv("MEDID_ADMIN_SECRET")
	generated := secret == ""
	if generated {
		if secret, err = secrets.Generate(); err != nil {
			return err
		}
	}

	publisher := audit.NewPublisher(4, audit.WithPublisherLogger(logger))
	worker := audit.NewWorker(audit.NewLogSink(logger), publisher.Events(), logger)
	defer func() {
		publisher.Close()
		_ = worker.Run(ctx)
	}()

	svc, err := identityService.New(st.identities, st.certification, st.runner,
		secrets.NewBcrypt(cfg.Auth.BcryptCost),
		identityService.WithLogger(logger),
		identityService.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	admin, err := svc.RegisterAdministrator(requestcontext.WithTime(ctx, time.Now()), identityService.RegisterAdministratorRequest{
		Login:       f.login,
		Secret:      secret,
		Contact:     f.contact,
		DisplayName: f.displayName,
		AccessLevel: f.accessLevel,
	})
	if err != nil {
		return err
	}

	logger.Info("administrator created",
		"admin_id", admin.ID.String(),
		"identity_id", admin.IdentityID.String(),
		"access_level", admin.AccessLevel,
	)
	if generated {
		fmt.Fprintf(os.Stdout, "generated secret for %s: %s\n", f.login, secret)
	}
	return nil
}
