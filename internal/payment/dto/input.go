package dto

type CreatePaymentInput struct {
	OrderID string
	UserID  string
	Method  string
}
