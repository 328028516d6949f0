package inventory

import (
	"context"
	"errors"

	"github.com/omniorder/order-service/internal/model"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrExceedsMaxStock    = errors.New("restock exceeds max stock level")
)

// UseCase is the inventory ledger: the only component allowed to mutate a
// product's tracked quantity. Reservations are linearizable per product so
// concurrent callers can never jointly oversell.
type UseCase interface {
	// Reserve decrements stock for an order line and returns a token that
	// captures the unit price at reservation time.
	Reserve(ctx context.Context, productID string, quantity int) (*model.Reservation, error)

	// Release reverses a prior reservation (compensating rollback or
	// cancellation). Stock is always restored, regardless of elapsed time.
	Release(ctx context.Context, res *model.Reservation) error

	// Restock adds stock and updates the last restock date.
	Restock(ctx context.Context, productID string, quantity int) error
}
