package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"medid/internal/platform/config"
	"medid/internal/platform/logger"
)

const programName = "medid"

var globalFlags = struct {
	debug bool
}{}

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

// commonRun configures the default logger and GOMAXPROCS. The --debug flag
// overrides the configured level.
func commonRun(cfg config.Server) *slog.Logger {
	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}
	log := logger.New(level).With("service", programName)
	slog.SetDefault(log)

	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		log.Warn("failed to set GOMAXPROCS", "error", err)
	}
	return log
}

func loadConfig() config.Server {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Medical identity provisioning and certification service",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun(cmd, args)
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(seedAdminCommand())

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
