// Package pricing computes line and order totals with fixed-point
// arithmetic. All money flows through decimal.Decimal; float64 never
// touches a price.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// LinePrice is one priced order line. Subtotal = UnitPrice * Quantity.
type LinePrice struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// PriceLine prices a single line at the given unit price.
func PriceLine(productID string, unitPrice decimal.Decimal, quantity int) (LinePrice, error) {
	if quantity <= 0 {
		return LinePrice{}, ErrInvalidQuantity
	}
	return LinePrice{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Total sums line subtotals.
func Total(lines []LinePrice) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total
}
