package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
)

// Reservation is the slice of a booking the ledger needs: its public code,
// stay state and accumulated amount.
type Reservation struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_reservations_code" json:"tenant_id"`
	Code        string                 `gorm:"size:50;not null;uniqueIndex:idx_reservations_code" json:"code"`
	GuestName   string                 `gorm:"size:255" json:"guest_name"`
	RoomNumber  string                 `gorm:"size:20" json:"room_number,omitempty"`
	Status      enum.ReservationStatus `gorm:"size:20;not null" json:"status"`
	CheckIn     *time.Time             `json:"check_in,omitempty"`
	CheckOut    *time.Time             `json:"check_out,omitempty"`
	TotalAmount decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	DeletedAt   gorm.DeletedAt         `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new reservation
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// IsCheckedIn reports whether the guest is in house
func (r *Reservation) IsCheckedIn() bool {
	return r.Status == enum.ReservationStatusCheckedIn
}

// MarshalJSON renders the amount with two decimals
func (r Reservation) MarshalJSON() ([]byte, error) {
	type Alias Reservation
	return json.Marshal(&struct {
		Alias
		TotalAmount string `json:"total_amount"`
	}{
		Alias:       Alias(r),
		TotalAmount: money(r.TotalAmount),
	})
}
