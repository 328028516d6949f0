package payment

import (
	"context"
	"errors"

	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/payment/dto"
)

var (
	ErrNotFound           = errors.New("payment not found")
	ErrOrderNotFound      = errors.New("order not found for payment")
	ErrAlreadyExists      = errors.New("order already has a payment")
	ErrInvalidState       = errors.New("payment is not in a state that allows this operation")
	ErrOrderNotReturnable = errors.New("order must be returned before the payment can be refunded")
)

type UseCase interface {
	CreatePayment(ctx context.Context, input *dto.CreatePaymentInput) (*model.Payment, error)
	ProcessPayment(ctx context.Context, id string) (*model.Payment, error)
	RefundPayment(ctx context.Context, id string) (*model.Payment, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	GetPaymentByOrder(ctx context.Context, orderID string) (*model.Payment, error)
}
