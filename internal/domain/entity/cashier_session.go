package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
)

// CashierSession is one shift of the front desk cash drawer.
// Expected, counted and difference are only set when the session closes.
type CashierSession struct {
	ID             uuid.UUID                 `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID                 `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Status         enum.CashierSessionStatus `gorm:"size:20;not null" json:"status"`
	OpeningAmount  decimal.Decimal           `gorm:"type:decimal(12,2);not null" json:"opening_amount"`
	ExpectedAmount decimal.NullDecimal       `gorm:"type:decimal(12,2)" json:"expected_amount"`
	CountedAmount  decimal.NullDecimal       `gorm:"type:decimal(12,2)" json:"counted_amount"`
	Difference     decimal.NullDecimal       `gorm:"type:decimal(12,2)" json:"difference"`
	OpenedAt       time.Time                 `gorm:"not null;index" json:"opened_at"`
	ClosedAt       *time.Time                `json:"closed_at,omitempty"`
	OpeningNotes   *string                   `gorm:"type:text" json:"opening_notes,omitempty"`
	ClosingNotes   *string                   `gorm:"type:text" json:"closing_notes,omitempty"`
	OpenedBy       *uuid.UUID                `gorm:"type:uuid" json:"opened_by,omitempty"`
	ClosedBy       *uuid.UUID                `gorm:"type:uuid" json:"closed_by,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *CashierSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashierSession model
func (CashierSession) TableName() string {
	return "cashier_sessions"
}

// IsOpen reports whether the drawer is still open
func (s *CashierSession) IsOpen() bool {
	return s.Status == enum.CashierSessionOpen
}

// MarshalJSON renders amounts with two decimals
func (s CashierSession) MarshalJSON() ([]byte, error) {
	type Alias CashierSession
	return json.Marshal(&struct {
		Alias
		OpeningAmount  string  `json:"opening_amount"`
		ExpectedAmount *string `json:"expected_amount"`
		CountedAmount  *string `json:"counted_amount"`
		Difference     *string `json:"difference"`
	}{
		Alias:          Alias(s),
		OpeningAmount:  money(s.OpeningAmount),
		ExpectedAmount: nullMoney(s.ExpectedAmount),
		CountedAmount:  nullMoney(s.CountedAmount),
		Difference:     nullMoney(s.Difference),
	})
}
