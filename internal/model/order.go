package model

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
	OrderStatusRefunded  OrderStatus = "refunded"
)

type Order struct {
	BaseModel
	UserID          string          `db:"user_id" json:"user_id"`
	Status          OrderStatus     `db:"status" json:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	ShippingAddress *string         `db:"shipping_address" json:"shipping_address"`
	BillingAddress  *string         `db:"billing_address" json:"billing_address"`
	Version         int             `db:"version" json:"version"` // optimistic locking
	Items           []OrderItem     `db:"-" json:"items"`
}

// OrderItem freezes the unit price at order time; it is never recomputed
// from the product's current price.
type OrderItem struct {
	BaseModel
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}
