package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/order"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// ON CONFLICT DO NOTHING keyed on the generated ids makes the whole
	// write idempotent, so a retry after a timed-out commit is safe.
	orderQuery := `
        INSERT INTO orders (
            id, user_id, status, total_amount, shipping_address,
            billing_address, version, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :status, :total_amount, :shipping_address,
            :billing_address, :version, :created_at, :updated_at
        )
        ON CONFLICT (id) DO NOTHING
    `
	if _, err = tx.NamedExecContext(ctx, orderQuery, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (
            id, order_id, product_id, quantity, unit_price, created_at, updated_at
        )
        VALUES (
            :id, :order_id, :product_id, :quantity, :unit_price, :created_at, :updated_at
        )
        ON CONFLICT (id) DO NOTHING
    `
	if _, err = tx.NamedExecContext(ctx, itemQuery, items); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &o.Items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return &o, nil
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return orders, err
}

func (r *PGRepository) FindByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE status = $1 ORDER BY created_at DESC`, status)
	return orders, err
}

func (r *PGRepository) FindActive(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE status NOT IN ('delivered', 'cancelled', 'returned', 'refunded')
		ORDER BY created_at DESC`)
	return orders, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, version int) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3`,
		orderID, status, version,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return order.ErrConflict
	}
	return nil
}

func (r *PGRepository) UpdateAddresses(ctx context.Context, orderID string, shipping, billing *string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET shipping_address = COALESCE($2, shipping_address),
		    billing_address = COALESCE($3, billing_address),
		    updated_at = NOW()
		WHERE id = $1`,
		orderID, shipping, billing,
	)
	return err
}
