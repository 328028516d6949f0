package order

import (
	"context"

	"github.com/omniorder/order-service/internal/model"
)

type Repository interface {
	// CreateWithItems persists the order and all its items in one
	// transaction; a crash can never leave an order with no lines. The
	// insert is idempotent on the order id so a timed-out write may be
	// retried with the same ids.
	CreateWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) error

	// FindByID returns nil, nil when the order does not exist. Items are
	// loaded.
	FindByID(ctx context.Context, id string) (*model.Order, error)

	FindByUser(ctx context.Context, userID string) ([]model.Order, error)
	FindByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	FindActive(ctx context.Context) ([]model.Order, error)

	// UpdateStatus applies an optimistic-concurrency update: it matches on
	// the given version and fails with ErrConflict when a concurrent writer
	// got there first.
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, version int) error

	// UpdateAddresses patches the only mutable free-text fields.
	UpdateAddresses(ctx context.Context, orderID string, shipping, billing *string) error
}

// IdempotencyStore deduplicates place-order requests by caller-supplied
// request id.
type IdempotencyStore interface {
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
