// Package tax splits tax-inclusive amounts into their net and tax parts.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

// Scale is the number of decimal places kept for every monetary amount.
const Scale int32 = 2

var hundred = decimal.NewFromInt(100)

// Tolerance is the largest allowed rounding gap between subtotal+tax and total.
var Tolerance = decimal.New(1, -Scale)

// Breakdown is a tax-inclusive amount split into subtotal and tax.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Decompose splits total at ratePercent (18 means 18%).
// Subtotal and tax are rounded independently, total is returned as given.
func Decompose(total, ratePercent decimal.Decimal) (Breakdown, error) {
	if ratePercent.IsNegative() {
		return Breakdown{}, apperror.ErrInvalidRate
	}
	if ratePercent.IsZero() {
		return Breakdown{Subtotal: total.Round(Scale), Tax: decimal.Zero, Total: total}, nil
	}

	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	subtotal := total.DivRound(divisor, 16)
	return Breakdown{
		Subtotal: subtotal.Round(Scale),
		Tax:      total.Sub(subtotal).Round(Scale),
		Total:    total,
	}, nil
}

// Money rounds an amount to the ledger scale.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// WithinTolerance reports whether |a-b| is at most one cent.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
