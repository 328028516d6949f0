package notification

import (
	"context"

	"github.com/omniorder/order-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}
