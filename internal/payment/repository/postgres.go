package repository

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PGRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
        INSERT INTO payments (id, order_id, user_id, amount, method, status, created_at, updated_at)
        VALUES (:id, :order_id, :user_id, :amount, :method, :status, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var p model.Payment
	query := `SELECT * FROM payments WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var p model.Payment
	query := `SELECT * FROM payments WHERE order_id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id, status, time.Now())
	return err
}
