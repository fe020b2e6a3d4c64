package entity

// ReceiptHeader holds the property header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line on a receipt. Amounts are pre-formatted.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// ReceiptLine is a label/value pair printed below the items.
type ReceiptLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Receipt is a value object representing a printable receipt.
// It is composed from folio or cashier session data at print time.
type Receipt struct {
	Header    ReceiptHeader `json:"header"`
	Title     string        `json:"title"`
	Reference string        `json:"reference"`
	Date      string        `json:"date"`
	Cashier   string        `json:"cashier,omitempty"`
	Guest     string        `json:"guest,omitempty"`
	Items     []ReceiptItem `json:"items,omitempty"`
	Totals    []ReceiptLine `json:"totals"`
	Payments  []ReceiptLine `json:"payments,omitempty"`
	Footer    string        `json:"footer,omitempty"`
}
