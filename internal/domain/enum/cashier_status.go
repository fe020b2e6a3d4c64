package enum

// CashierSessionStatus represents the state of a cash drawer session
type CashierSessionStatus string

const (
	CashierSessionOpen   CashierSessionStatus = "OPEN"
	CashierSessionClosed CashierSessionStatus = "CLOSED"
)
