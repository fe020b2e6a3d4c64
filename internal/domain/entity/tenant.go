package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tenant represents a hotel property operating its own books
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	TaxID     string         `gorm:"size:20" json:"tax_id,omitempty"`
	Address   string         `gorm:"size:255" json:"address,omitempty"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds the ledger configuration of a tenant
type TenantSettings struct {
	Currency string          `json:"currency,omitempty"`
	Timezone string          `json:"timezone,omitempty"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	TaxLabel string          `json:"tax_label,omitempty"`

	// Printed on receipts
	ReceiptFooter string `json:"receipt_footer,omitempty"`
}

// DefaultTenantSettings returns default settings for new tenants
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:      "PEN",
		Timezone:      "America/Lima",
		TaxRate:       decimal.NewFromInt(18),
		TaxLabel:      "IGV",
		ReceiptFooter: "Gracias por su preferencia",
	}
}
