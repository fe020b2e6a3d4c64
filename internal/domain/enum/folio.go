package enum

// FolioStatus represents the lifecycle state of a folio
type FolioStatus string

const (
	FolioStatusOpen   FolioStatus = "OPEN"
	FolioStatusClosed FolioStatus = "CLOSED"
)

// ChargeType classifies a folio charge
type ChargeType string

const (
	ChargeTypeRoom    ChargeType = "ROOM"
	ChargeTypeProduct ChargeType = "PRODUCT"
	ChargeTypeService ChargeType = "SERVICE"
	ChargeTypeOther   ChargeType = "OTHER"
)

// IsValid reports whether the charge type is known
func (c ChargeType) IsValid() bool {
	switch c {
	case ChargeTypeRoom, ChargeTypeProduct, ChargeTypeService, ChargeTypeOther:
		return true
	}
	return false
}

// PaymentMethod is how a payment was tendered
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodYape     PaymentMethod = "YAPE"
	PaymentMethodPlin     PaymentMethod = "PLIN"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// IsValid reports whether the payment method is known
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer,
		PaymentMethodYape, PaymentMethodPlin, PaymentMethodOther:
		return true
	}
	return false
}
