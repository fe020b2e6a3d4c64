package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/config"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/testutil"
	"github.com/sangkips/hotel-ledger-api/pkg/utils"
)

func execute(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()

	opener := func(*config.Config, *zap.Logger) (*gorm.DB, func(), error) {
		if db == nil {
			t.Fatal("command should not touch the database")
		}
		return db, func() {}, nil
	}

	root := NewRootCommand(opener)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))

	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "ledgerctl-test-secret")
	t.Setenv("LOG_LEVEL", "error")

	tenantID := uuid.New()
	userID := uuid.New()
	out, err := execute(t, nil, "token",
		"--tenant", tenantID.String(),
		"--user", userID.String(),
		"--roles", "admin,cashier",
		"--ttl", "1h")
	require.NoError(t, err)

	claims, err := utils.NewJWTManager("ledgerctl-test-secret", time.Hour).ValidateAccessToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"admin", "cashier"}, claims.Roles)
}

func TestTokenCommandRejectsBadTenant(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, nil, "token", "--tenant", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --tenant")
}

func TestTenantCreate(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	db := testutil.NewDB(t)

	out, err := execute(t, db, "tenant", "create",
		"--name", "Hotel Miraflores",
		"--slug", "Miraflores",
		"--tax-id", "20123456789",
		"--tax-rate", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "slug:     miraflores")
	assert.Contains(t, out, "tax rate: 10.00%")

	var tenant entity.Tenant
	require.NoError(t, db.Where("slug = ?", "miraflores").First(&tenant).Error)
	assert.Equal(t, "20123456789", tenant.TaxID)
	assert.Equal(t, "10", tenant.Settings.TaxRate.String())

	var series []entity.VoucherSeries
	require.NoError(t, db.Where("tenant_id = ?", tenant.ID).Order("series").Find(&series).Error)
	require.Len(t, series, 2)
	assert.Equal(t, "B001", series[0].Series)
	assert.Equal(t, "F001", series[1].Series)

	_, err = execute(t, db, "tenant", "create", "--name", "Again", "--slug", "miraflores")
	require.Error(t, err)
}

func TestTenantCreateRequiresFlags(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, nil, "tenant", "create", "--name", "No slug")
	require.Error(t, err)
}

func TestJobsCommands(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	db := testutil.NewDB(t)

	expired := &entity.IdempotencyKey{
		Key:          "k-1",
		TenantID:     uuid.New(),
		UserID:       uuid.New(),
		Endpoint:     "POST /api/v1/pos/walk-in-sale",
		ResponseCode: 201,
		ExpiresAt:    time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, db.Create(expired).Error)

	out, err := execute(t, db, "jobs", "cleanup")
	require.NoError(t, err)
	assert.Equal(t, "expired idempotency keys deleted: 1\n", out)

	out, err = execute(t, db, "jobs", "voucher-reset")
	require.NoError(t, err)
	assert.Equal(t, "voucher series reset: 0\n", out)
}
