package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
)

func newJobsCommand(a *app) *cobra.Command {
	jobs := &cobra.Command{
		Use:   "jobs",
		Short: "Run a maintenance job once",
	}

	jobs.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired idempotency keys",
		Example: `  ledgerctl jobs cleanup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runJob(cmd, "expired idempotency keys deleted",
				func(ctx context.Context, m *service.MaintenanceService) (int64, error) {
					return m.CleanupExpiredIdempotencyKeys(ctx)
				})
		},
	})

	jobs.AddCommand(&cobra.Command{
		Use:   "voucher-reset",
		Short: "Start a new issuance period on series still stamped with an old month",
		Long: `Zeroes the per-period issuance counter of every voucher series whose period
key is not the current month. Running it twice in the same month is a no-op.
Voucher numbers themselves are never reset.`,
		Example: `  ledgerctl jobs voucher-reset`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runJob(cmd, "voucher series reset",
				func(ctx context.Context, m *service.MaintenanceService) (int64, error) {
					return m.ResetVoucherPeriods(ctx)
				})
		},
	})

	return jobs
}

func (a *app) runJob(cmd *cobra.Command, label string, job func(context.Context, *service.MaintenanceService) (int64, error)) error {
	return a.withDB(func(db *gorm.DB) error {
		tx := repository.NewTransactor(db, a.cfg.Ledger.LockTimeout)
		vouchers := service.NewVoucherSeriesService(tx, repository.NewVoucherSeriesRepository(db), nil, a.log)
		maintenance := service.NewMaintenanceService(repository.NewIdempotencyRepository(db), vouchers, nil, a.log)

		n, err := job(cmd.Context(), maintenance)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", label, n)
		return nil
	})
}
