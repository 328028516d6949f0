package model

import "time"

// Event is a domain event emitted on the in-process bus. Events are
// ephemeral value objects: if nobody is subscribed when one is published,
// it is lost.
type Event interface {
	EventName() string
}

// LowStockEvent fires once when a product's stock falls to or below its
// minimum stock level. Edge-triggered: further mutations within the low
// band emit nothing.
type LowStockEvent struct {
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	Threshold  int       `json:"threshold"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (LowStockEvent) EventName() string { return "inventory.low_stock" }

// OutOfStockEvent fires once when a product's stock reaches zero.
type OutOfStockEvent struct {
	ProductID  string    `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (OutOfStockEvent) EventName() string { return "inventory.out_of_stock" }

// OrderPlacedEvent is emitted after an order and its items were persisted.
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Total      string    `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (OrderPlacedEvent) EventName() string { return "order.placed" }

type OrderStatusChangedEvent struct {
	OrderID    string      `json:"order_id"`
	UserID     string      `json:"user_id"`
	From       OrderStatus `json:"from"`
	To         OrderStatus `json:"to"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func (OrderStatusChangedEvent) EventName() string { return "order.status_changed" }

type PaymentStatusChangedEvent struct {
	PaymentID  string        `json:"payment_id"`
	OrderID    string        `json:"order_id"`
	UserID     string        `json:"user_id"`
	Status     PaymentStatus `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func (PaymentStatusChangedEvent) EventName() string { return "payment.status_changed" }
