package enum

// InvoiceStatus tracks the fiscal submission outcome of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "PENDING"
	InvoiceStatusAccepted InvoiceStatus = "ACCEPTED"
	InvoiceStatusRejected InvoiceStatus = "REJECTED"
	InvoiceStatusError    InvoiceStatus = "ERROR"
)
