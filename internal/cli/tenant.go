package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
)

func newTenantCommand(a *app) *cobra.Command {
	tenant := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	var (
		input   service.OnboardTenantInput
		taxRate string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Onboard a tenant with its default factura and boleta series",
		Example: `  ledgerctl tenant create --name "Hotel Miraflores" --slug miraflores --tax-id 20123456789

  # Tenant outside the general IGV regime
  ledgerctl tenant create --name "Selva Lodge" --slug selva --tax-rate 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if taxRate != "" {
				rate, err := decimal.NewFromString(taxRate)
				if err != nil {
					return fmt.Errorf("invalid --tax-rate %q: %w", taxRate, err)
				}
				input.TaxRate = &rate
			}

			return a.withDB(func(db *gorm.DB) error {
				tx := repository.NewTransactor(db, a.cfg.Ledger.LockTimeout)
				vouchers := service.NewVoucherSeriesService(tx, repository.NewVoucherSeriesRepository(db), nil, a.log)
				tenants := service.NewTenantService(tx, repository.NewTenantRepository(db), vouchers, service.TenantDefaults{
					TaxRate:       decimal.NewFromFloat(a.cfg.Ledger.DefaultTaxRatePct),
					FacturaSeries: a.cfg.Ledger.DefaultFacturaCode,
					BoletaSeries:  a.cfg.Ledger.DefaultBoletaCode,
				}, a.log)

				created, err := tenants.Onboard(cmd.Context(), &input)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "tenant created")
				fmt.Fprintf(out, "  id:       %s\n", created.ID)
				fmt.Fprintf(out, "  slug:     %s\n", created.Slug)
				fmt.Fprintf(out, "  tax rate: %s%%\n", created.Settings.TaxRate.StringFixed(2))
				fmt.Fprintf(out, "  series:   %s, %s\n", a.cfg.Ledger.DefaultFacturaCode, a.cfg.Ledger.DefaultBoletaCode)
				return nil
			})
		},
	}
	create.Flags().StringVar(&input.Name, "name", "", "Display name of the property")
	create.Flags().StringVar(&input.Slug, "slug", "", "Unique lowercase identifier")
	create.Flags().StringVar(&input.TaxID, "tax-id", "", "Taxpayer number (RUC)")
	create.Flags().StringVar(&input.Address, "address", "", "Address printed on receipts")
	create.Flags().StringVar(&input.Phone, "phone", "", "Phone printed on receipts")
	create.Flags().StringVar(&taxRate, "tax-rate", "", "IGV percentage, defaults to LEDGER_DEFAULT_TAX_RATE")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("slug")

	tenant.AddCommand(create)
	return tenant
}
