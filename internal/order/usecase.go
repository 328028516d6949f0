package order

import (
	"context"

	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/order/dto"
)

type UseCase interface {
	// PlaceOrder reserves stock for every requested line, prices the lines
	// at the current unit price, and persists the order atomically. A
	// failure on any step releases everything reserved so far.
	PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error)

	// CancelOrder transitions the order to cancelled (only legal from
	// pending or confirmed) and restores the stock of every item.
	CancelOrder(ctx context.Context, orderID string) (*model.Order, error)

	// UpdateOrderStatus applies one status transition after validating it
	// against the state machine.
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)

	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	ListActiveOrders(ctx context.Context) ([]model.Order, error)

	UpdateOrderAddresses(ctx context.Context, input *dto.UpdateAddressInput) (*model.Order, error)
}
