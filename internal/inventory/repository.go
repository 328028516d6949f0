package inventory

import (
	"context"
	"time"

	"github.com/omniorder/order-service/internal/model"
)

type Repository interface {
	// GetProduct returns nil, nil when the product does not exist.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// DecrementStock atomically decrements qty_in_stock by quantity when
	// enough stock remains. ok is false when the conditional update matched
	// no row. remaining is the stock level after the decrement.
	DecrementStock(ctx context.Context, productID string, quantity int) (remaining int, ok bool, err error)

	// IncrementStock adds quantity back (reservation release, cancellation).
	// Never capacity-checked: released stock is always restored.
	IncrementStock(ctx context.Context, productID string, quantity int) (remaining int, err error)

	// Restock increments stock and stamps last_restock_date, refusing to
	// exceed max_stock_level when one is set. ok is false when the capacity
	// condition matched no row.
	Restock(ctx context.Context, productID string, quantity int, at time.Time) (remaining int, ok bool, err error)
}
