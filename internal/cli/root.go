// Package cli implements matchtrip-admin, the operator tool for refund
// policies, refunds and data maintenance.
package cli

import (
	"fmt"
	"os"

	"matchtrip-be/internal/config"
	"matchtrip-be/internal/pkg/fieldcrypt"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/unitofwork"
	"matchtrip-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "matchtrip-admin",
		Short: "MatchTrip operator tool",
		Long: `matchtrip-admin manages refund policies, retries failed refunds and runs
data maintenance against the MatchTrip database.

Connection settings come from the same environment (.env) as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every SQL statement")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(refundCmd)
	rootCmd.AddCommand(refundsCmd)
	rootCmd.AddCommand(encryptionCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(verifyCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		return err
	}
	return nil
}

// env is what a database-backed command needs. Commands that work offline
// never build one.
type env struct {
	cfg    *config.Config
	db     *gorm.DB
	cipher fieldcrypt.Cipher
	uow    unitofwork.RepositoryFactory
	log    logger.ILogger
}

func openEnv() (*env, error) {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, verbose)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	cipher, err := fieldcrypt.New(cfg.Crypto.FieldKey)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:    cfg,
		db:     db,
		cipher: cipher,
		uow:    unitofwork.NewRepositoryFactory(db, cipher),
		log:    logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction()),
	}, nil
}

func (e *env) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
}
