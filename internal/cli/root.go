// Package cli implements ledgerctl, the operator command line for the hotel ledger.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/config"
	"github.com/sangkips/hotel-ledger-api/pkg/logger"
)

var version = "1.0.0"

// DBOpener connects to the ledger database. The returned func releases it.
type DBOpener func(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error)

type app struct {
	open    DBOpener
	envFile string
	cfg     *config.Config
	log     *zap.Logger
}

// NewRootCommand builds the ledgerctl command tree
func NewRootCommand(open DBOpener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the hotel ledger from the command line",
		Long: `ledgerctl runs maintenance jobs, onboards tenants and mints development
tokens against the same database and configuration as the API server.

Configuration is read from the environment, optionally seeded from an env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.Must(cfg.Log.Level, cfg.Log.Format).Named("ledgerctl")
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Env file to read configuration from")

	root.AddCommand(newJobsCommand(a))
	root.AddCommand(newTenantCommand(a))
	root.AddCommand(newTokenCommand(a))
	return root
}

// withDB opens the database for the duration of fn
func (a *app) withDB(fn func(db *gorm.DB) error) error {
	db, release, err := a.open(a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer release()
	return fn(db)
}
