package enum

// VoucherType is the kind of fiscal document a series numbers
type VoucherType string

const (
	VoucherTypeFactura     VoucherType = "FACTURA"
	VoucherTypeBoleta      VoucherType = "BOLETA"
	VoucherTypeNotaCredito VoucherType = "NOTA_CREDITO"
	VoucherTypeNotaDebito  VoucherType = "NOTA_DEBITO"
)

// IsValid reports whether the voucher type is known
func (v VoucherType) IsValid() bool {
	return v.FiscalCode() != 0
}

// FiscalCode returns the numeric document type used by the tax authority gateway
func (v VoucherType) FiscalCode() int {
	switch v {
	case VoucherTypeFactura:
		return 1
	case VoucherTypeBoleta:
		return 2
	case VoucherTypeNotaCredito:
		return 3
	case VoucherTypeNotaDebito:
		return 4
	}
	return 0
}
