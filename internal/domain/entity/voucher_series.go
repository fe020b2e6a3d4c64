package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
)

// SeriesCodeLength is the fixed length of a series code such as "F001"
const SeriesCodeLength = 4

// VoucherSeries is a numbering sequence for one kind of fiscal voucher.
// CurrentNumber is the next number to be issued and only ever grows by one per issuance.
type VoucherSeries struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_voucher_series_code" json:"tenant_id"`
	VoucherType    enum.VoucherType `gorm:"size:20;not null;uniqueIndex:idx_voucher_series_code" json:"voucher_type"`
	Series         string           `gorm:"size:4;not null;uniqueIndex:idx_voucher_series_code" json:"series"`
	CurrentNumber  int64            `gorm:"not null" json:"current_number"`
	IsActive       bool             `gorm:"not null" json:"is_active"`
	IsDefault      bool             `gorm:"not null" json:"is_default"`
	Description    string           `gorm:"size:255" json:"description,omitempty"`
	EmissionPoint  string           `gorm:"size:100" json:"emission_point,omitempty"`
	IssuedInPeriod int64            `gorm:"not null" json:"issued_in_period"`
	PeriodKey      string           `gorm:"size:7" json:"period_key"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new series
func (v *VoucherSeries) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the VoucherSeries model
func (VoucherSeries) TableName() string {
	return "tenant_voucher_series"
}

// VoucherNumber is one issued number of a series
type VoucherNumber struct {
	SeriesID   uuid.UUID `json:"seriesId"`
	Series     string    `json:"series"`
	Number     int64     `json:"number"`
	FullNumber string    `json:"fullNumber"`
}

// FormatVoucherNumber renders series and number as "F001-00000042"
func FormatVoucherNumber(series string, number int64) string {
	return fmt.Sprintf("%s-%08d", series, number)
}

// PeriodKeyFor returns the monthly period a time falls in, e.g. "2025-03"
func PeriodKeyFor(t time.Time) string {
	return t.Format("2006-01")
}
