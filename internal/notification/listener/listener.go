package listener

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/notification"
	"github.com/omniorder/order-service/pkg/logger"
	"go.uber.org/zap"
)

// Listener turns domain events into persisted notification rows. Stock
// alerts go to the configured alert user; order and payment updates go to
// the order's owner.
type Listener struct {
	events    <-chan model.Event
	repo      notification.Repository
	alertUser string
	logger    logger.ZapLogger
}

func NewListener(events <-chan model.Event, repo notification.Repository, alertUser string, log logger.ZapLogger) *Listener {
	return &Listener{
		events:    events,
		repo:      repo,
		alertUser: alertUser,
		logger:    log,
	}
}

func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("Starting notification listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping notification listener")
			return
		case e, ok := <-l.events:
			if !ok {
				l.logger.Info("Event channel closed, stopping notification listener")
				return
			}
			l.process(ctx, e)
		}
	}
}

func (l *Listener) process(ctx context.Context, e model.Event) {
	var n *model.Notification

	switch ev := e.(type) {
	case model.LowStockEvent:
		n = l.build(l.alertUser, nil, model.NotificationTypeSystem,
			"Low stock",
			fmt.Sprintf("Product %s is down to %d units (threshold %d)", ev.ProductID, ev.Quantity, ev.Threshold),
		)
	case model.OutOfStockEvent:
		n = l.build(l.alertUser, nil, model.NotificationTypeSystem,
			"Out of stock",
			fmt.Sprintf("Product %s is out of stock", ev.ProductID),
		)
	case model.OrderPlacedEvent:
		n = l.build(ev.UserID, &ev.OrderID, model.NotificationTypeOrderStatus,
			"Order placed",
			fmt.Sprintf("Your order %s was placed, total %s", ev.OrderID, ev.Total),
		)
	case model.OrderStatusChangedEvent:
		n = l.build(ev.UserID, &ev.OrderID, model.NotificationTypeOrderStatus,
			"Order update",
			fmt.Sprintf("Your order %s moved from %s to %s", ev.OrderID, ev.From, ev.To),
		)
	case model.PaymentStatusChangedEvent:
		n = l.build(ev.UserID, &ev.OrderID, model.NotificationTypePaymentStatus,
			"Payment update",
			fmt.Sprintf("Payment for order %s is now %s", ev.OrderID, ev.Status),
		)
	default:
		return
	}

	if err := l.repo.Create(ctx, n); err != nil {
		l.logger.Error("Failed to store notification",
			zap.String("event", e.EventName()),
			zap.Error(err),
		)
	}
}

func (l *Listener) build(userID string, orderID *string, typ model.NotificationType, title, message string) *model.Notification {
	now := time.Now()
	return &model.Notification{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		OrderID:   orderID,
		Type:      typ,
		Title:     title,
		Message:   message,
	}
}
