package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// TenantService handles tenant-related operations
type TenantService struct {
	tx         repository.Transactor
	tenantRepo repository.TenantRepository
	vouchers   *VoucherSeriesService
	defaults   TenantDefaults
	log        *zap.Logger
}

// TenantDefaults seeds new tenants
type TenantDefaults struct {
	TaxRate       decimal.Decimal
	FacturaSeries string
	BoletaSeries  string
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tx repository.Transactor,
	tenantRepo repository.TenantRepository,
	vouchers *VoucherSeriesService,
	defaults TenantDefaults,
	log *zap.Logger,
) *TenantService {
	return &TenantService{
		tx:         tx,
		tenantRepo: tenantRepo,
		vouchers:   vouchers,
		defaults:   defaults,
		log:        log,
	}
}

// OnboardTenantInput represents input for creating a tenant
type OnboardTenantInput struct {
	Name    string
	Slug    string
	TaxID   string
	Address string
	Phone   string
	TaxRate *decimal.Decimal
}

// Onboard creates a tenant together with its default factura and boleta series
func (s *TenantService) Onboard(ctx context.Context, input *OnboardTenantInput) (*entity.Tenant, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if name == "" {
		return nil, apperror.NewBadRequestError("Tenant name is required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperror.NewBadRequestError("Slug may only contain lowercase letters, digits and dashes")
	}

	settings := entity.DefaultTenantSettings()
	settings.TaxRate = s.defaults.TaxRate
	if input.TaxRate != nil {
		settings.TaxRate = *input.TaxRate
	}
	if settings.TaxRate.IsNegative() {
		return nil, apperror.ErrInvalidRate
	}

	tenant := &entity.Tenant{
		Name:     name,
		Slug:     slug,
		TaxID:    strings.TrimSpace(input.TaxID),
		Address:  input.Address,
		Phone:    input.Phone,
		Settings: settings,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.tenantRepo.SlugExists(ctx, slug)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewConflictError("Tenant slug already exists")
		}
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return err
		}

		scoped := infraRepo.WithTenant(ctx, tenant.ID)
		seeds := []CreateSeriesInput{
			{VoucherType: enum.VoucherTypeFactura, Series: s.defaults.FacturaSeries, IsDefault: true, Description: "Facturas"},
			{VoucherType: enum.VoucherTypeBoleta, Series: s.defaults.BoletaSeries, IsDefault: true, Description: "Boletas"},
		}
		for i := range seeds {
			if _, err := s.vouchers.CreateSeries(scoped, &seeds[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant onboarded", zap.String("tenant_id", tenant.ID.String()), zap.String("slug", tenant.Slug))
	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// UpdateTaxRate changes the IGV percentage applied to future charges
func (s *TenantService) UpdateTaxRate(ctx context.Context, rate decimal.Decimal) (*entity.Tenant, error) {
	if rate.IsNegative() {
		return nil, apperror.ErrInvalidRate
	}
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	tenant, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tenant.Settings.TaxRate = rate
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
