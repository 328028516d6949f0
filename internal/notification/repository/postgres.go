package repository

import (
	"context"
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

func (r *PGRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
        INSERT INTO notifications (id, user_id, order_id, type, title, message, is_read, created_at, updated_at)
        VALUES (:id, :user_id, :order_id, :type, :title, :message, :is_read, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, n)
	return err
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	var notifications []model.Notification
	query := `SELECT * FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC`

	if err := r.DB.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PGRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = true, updated_at = $2 WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id, time.Now())
	return err
}
