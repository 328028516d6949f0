package model

import "github.com/shopspring/decimal"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	BaseModel
	OrderID string          `db:"order_id" json:"order_id"`
	UserID  string          `db:"user_id" json:"user_id"`
	Amount  decimal.Decimal `db:"amount" json:"amount"`
	Method  string          `db:"method" json:"method"`
	Status  PaymentStatus   `db:"status" json:"status"`
}
