package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/omniorder/order-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// DecrementStock is the reservation primitive: the read and the decrement
// are one conditional UPDATE, so two concurrent reservations can never
// jointly exceed the available stock.
func (r *PGRepository) DecrementStock(ctx context.Context, productID string, quantity int) (int, bool, error) {
	var remaining int
	err := r.DB.QueryRowxContext(ctx, `
		UPDATE products
		SET qty_in_stock = qty_in_stock - $2, updated_at = NOW()
		WHERE id = $1 AND qty_in_stock >= $2
		RETURNING qty_in_stock`,
		productID, quantity,
	).Scan(&remaining)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("decrement stock: %w", err)
	}
	return remaining, true, nil
}

func (r *PGRepository) IncrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	var remaining int
	err := r.DB.QueryRowxContext(ctx, `
		UPDATE products
		SET qty_in_stock = qty_in_stock + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING qty_in_stock`,
		productID, quantity,
	).Scan(&remaining)

	if err != nil {
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return remaining, nil
}

func (r *PGRepository) Restock(ctx context.Context, productID string, quantity int, at time.Time) (int, bool, error) {
	var remaining int
	err := r.DB.QueryRowxContext(ctx, `
		UPDATE products
		SET qty_in_stock = qty_in_stock + $2, last_restock_date = $3, updated_at = NOW()
		WHERE id = $1
		  AND (max_stock_level IS NULL OR qty_in_stock + $2 <= max_stock_level)
		RETURNING qty_in_stock`,
		productID, quantity, at,
	).Scan(&remaining)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("restock: %w", err)
	}
	return remaining, true, nil
}
