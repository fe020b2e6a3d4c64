package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sangkips/hotel-ledger-api/pkg/utils"
)

func newTokenCommand(a *app) *cobra.Command {
	var (
		tenantID string
		userID   string
		email    string
		roles    []string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for local development",
		Example: `  ledgerctl token --tenant 7f1c0e4a-0000-4000-8000-000000000001 --roles admin,cashier`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid --tenant: %w", err)
			}
			uid := uuid.New()
			if userID != "" {
				if uid, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			if ttl <= 0 {
				ttl = a.cfg.JWT.ExpiryHours
			}

			token, err := utils.NewJWTManager(a.cfg.JWT.Secret, ttl).GenerateAccessToken(uid, tid, email, roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant id the token is bound to")
	cmd.Flags().StringVar(&userID, "user", "", "User id, random when empty")
	cmd.Flags().StringVar(&email, "email", "dev@localhost", "Email claim")
	cmd.Flags().StringSliceVar(&roles, "roles", []string{"admin"}, "Comma separated roles")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime, defaults to JWT_EXPIRY_HOURS")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
