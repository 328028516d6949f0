package dto

// OrderLineInput is one (product, quantity) pair in a place-order request.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	UserID          string
	RequestID       string // optional idempotency token
	Lines           []OrderLineInput
	ShippingAddress *string
	BillingAddress  *string
}

type UpdateAddressInput struct {
	OrderID         string
	ShippingAddress *string
	BillingAddress  *string
}
