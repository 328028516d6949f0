package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is the token returned by a successful stock reservation.
// It captures the unit price in effect at reservation time and carries
// everything needed to reverse the decrement.
type Reservation struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ReservedAt time.Time       `json:"reserved_at"`
}
