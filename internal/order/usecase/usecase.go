package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/omniorder/order-service/internal/events"
	"github.com/omniorder/order-service/internal/inventory"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/order"
	"github.com/omniorder/order-service/internal/order/dto"
	"github.com/omniorder/order-service/internal/pricing"
	"github.com/omniorder/order-service/pkg/logger"
	"go.uber.org/zap"
)

// persistRetryTimeout bounds the single retry of a timed-out order write.
const persistRetryTimeout = 5 * time.Second

type orderUseCase struct {
	repo    order.Repository
	ledger  inventory.UseCase
	machine *order.StateMachine
	bus     events.Publisher
	idem    order.IdempotencyStore // may be nil, requests are then not deduplicated
	logger  logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	ledger inventory.UseCase,
	machine *order.StateMachine,
	bus events.Publisher,
	idem order.IdempotencyStore,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:    repo,
		ledger:  ledger,
		machine: machine,
		bus:     bus,
		idem:    idem,
		logger:  log,
	}
}

func (uc *orderUseCase) PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	if len(input.Lines) == 0 {
		return nil, order.ErrEmptyOrder
	}

	if input.RequestID != "" && uc.idem != nil {
		ok, err := uc.idem.SetIdempotency(ctx, "order:req:"+input.RequestID)
		if err != nil {
			return nil, fmt.Errorf("idempotency check: %w", err)
		}
		if !ok {
			return nil, order.ErrDuplicateRequest
		}
	}

	// Each line's reservation commits independently, so the forward pass
	// accumulates compensations to run in reverse on any failure.
	var undo []func(context.Context) error
	// Compensations must run even when ctx already hit its deadline.
	rollbackCtx := context.WithoutCancel(ctx)

	lines := make([]pricing.LinePrice, 0, len(input.Lines))
	for _, reqLine := range input.Lines {
		res, err := uc.ledger.Reserve(ctx, reqLine.ProductID, reqLine.Quantity)
		if err != nil {
			uc.rollback(rollbackCtx, undo)
			return nil, &order.LineRejectedError{ProductID: reqLine.ProductID, Reason: err}
		}
		undo = append(undo, func(ctx context.Context) error {
			return uc.ledger.Release(ctx, res)
		})

		line, err := pricing.PriceLine(res.ProductID, res.UnitPrice, res.Quantity)
		if err != nil {
			uc.rollback(rollbackCtx, undo)
			return nil, &order.LineRejectedError{ProductID: reqLine.ProductID, Reason: err}
		}
		lines = append(lines, line)
	}

	now := time.Now()
	o := &model.Order{
		BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:          input.UserID,
		Status:          model.OrderStatusPending,
		TotalAmount:     pricing.Total(lines),
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Version:         1,
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, model.OrderItem{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			OrderID:   o.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := uc.persistOrder(ctx, o, items); err != nil {
		uc.rollback(rollbackCtx, undo)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, order.ErrGatewayTimeout
		}
		return nil, fmt.Errorf("%w: %v", order.ErrPersistenceFailed, err)
	}
	o.Items = items

	uc.logger.Info("Order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.Int("lines", len(items)),
		zap.String("total", o.TotalAmount.String()),
	)
	uc.bus.Publish(model.OrderPlacedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Total:      o.TotalAmount.String(),
		OccurredAt: now,
	})
	return o, nil
}

// persistOrder writes the order once, retrying a timed-out write a single
// time. The write is idempotent on the generated ids, so the retry cannot
// duplicate rows if the first attempt actually committed.
func (uc *orderUseCase) persistOrder(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	err := uc.repo.CreateWithItems(ctx, o, items)
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	uc.logger.Warn("Order write timed out, retrying once", zap.String("order_id", o.ID))
	retryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistRetryTimeout)
	defer cancel()
	return uc.repo.CreateWithItems(retryCtx, o, items)
}

// rollback runs accumulated compensations in reverse order.
func (uc *orderUseCase) rollback(ctx context.Context, undo []func(context.Context) error) {
	for i := len(undo) - 1; i >= 0; i-- {
		if err := undo[i](ctx); err != nil {
			uc.logger.Error("CRITICAL: compensation failed, stock may be inconsistent", zap.Error(err))
		}
	}
}

func (uc *orderUseCase) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}

	from := o.Status
	if err := uc.machine.Transition(o, model.OrderStatusCancelled); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, o.ID, o.Status, o.Version); err != nil {
		return nil, err
	}
	o.Version++

	// Cancellation always restores stock, regardless of elapsed time.
	for _, item := range o.Items {
		release := &model.Reservation{ProductID: item.ProductID, Quantity: item.Quantity}
		if err := uc.ledger.Release(ctx, release); err != nil {
			uc.logger.Error("CRITICAL: failed to restore stock on cancellation",
				zap.String("order_id", o.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}

	uc.logger.Info("Order cancelled", zap.String("order_id", o.ID))
	uc.bus.Publish(model.OrderStatusChangedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		From:       from,
		To:         o.Status,
		OccurredAt: time.Now(),
	})
	return o, nil
}

func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}

	from := o.Status
	if err := uc.machine.Transition(o, status); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, o.ID, o.Status, o.Version); err != nil {
		return nil, err
	}
	o.Version++

	uc.bus.Publish(model.OrderStatusChangedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		From:       from,
		To:         o.Status,
		OccurredAt: time.Now(),
	})
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return uc.repo.FindByUser(ctx, userID)
}

func (uc *orderUseCase) ListOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return uc.repo.FindByStatus(ctx, status)
}

func (uc *orderUseCase) ListActiveOrders(ctx context.Context) ([]model.Order, error) {
	return uc.repo.FindActive(ctx)
}

func (uc *orderUseCase) UpdateOrderAddresses(ctx context.Context, input *dto.UpdateAddressInput) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}

	if err := uc.repo.UpdateAddresses(ctx, o.ID, input.ShippingAddress, input.BillingAddress); err != nil {
		return nil, err
	}
	return uc.repo.FindByID(ctx, o.ID)
}
