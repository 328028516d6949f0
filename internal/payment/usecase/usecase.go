package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/omniorder/order-service/internal/events"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/order"
	"github.com/omniorder/order-service/internal/payment"
	"github.com/omniorder/order-service/internal/payment/dto"
	"github.com/omniorder/order-service/pkg/logger"
	"go.uber.org/zap"
)

type paymentUseCase struct {
	repo      payment.Repository
	orderRepo order.Repository
	bus       events.Publisher
	logger    logger.ZapLogger
}

func NewPaymentUseCase(
	repo payment.Repository,
	orderRepo order.Repository,
	bus events.Publisher,
	log logger.ZapLogger,
) payment.UseCase {
	return &paymentUseCase{repo: repo, orderRepo: orderRepo, bus: bus, logger: log}
}

// CreatePayment opens a pending payment for an order. The amount is taken
// from the persisted order total, never from the caller.
func (uc *paymentUseCase) CreatePayment(ctx context.Context, input *dto.CreatePaymentInput) (*model.Payment, error) {
	o, err := uc.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, payment.ErrOrderNotFound
	}

	existing, err := uc.repo.FindByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, payment.ErrAlreadyExists
	}

	now := time.Now()
	p := &model.Payment{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OrderID:   o.ID,
		UserID:    o.UserID,
		Amount:    o.TotalAmount,
		Method:    input.Method,
		Status:    model.PaymentStatusPending,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.publishStatusChange(p)
	return p, nil
}

func (uc *paymentUseCase) ProcessPayment(ctx context.Context, id string) (*model.Payment, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, payment.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return nil, payment.ErrInvalidState
	}

	if err := uc.repo.UpdateStatus(ctx, p.ID, model.PaymentStatusCompleted); err != nil {
		return nil, err
	}
	p.Status = model.PaymentStatusCompleted
	p.UpdatedAt = time.Now()

	uc.logger.Info("payment completed",
		zap.String("payment_id", p.ID),
		zap.String("order_id", p.OrderID),
	)
	uc.publishStatusChange(p)
	return p, nil
}

// RefundPayment moves a completed payment to refunded. The order must have
// come back first: refunds are only issued for orders in the returned
// status.
func (uc *paymentUseCase) RefundPayment(ctx context.Context, id string) (*model.Payment, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, payment.ErrNotFound
	}
	if p.Status != model.PaymentStatusCompleted {
		return nil, payment.ErrInvalidState
	}

	o, err := uc.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, payment.ErrOrderNotFound
	}
	if o.Status != model.OrderStatusReturned {
		return nil, payment.ErrOrderNotReturnable
	}

	if err := uc.repo.UpdateStatus(ctx, p.ID, model.PaymentStatusRefunded); err != nil {
		return nil, err
	}
	p.Status = model.PaymentStatusRefunded
	p.UpdatedAt = time.Now()

	uc.logger.Info("payment refunded",
		zap.String("payment_id", p.ID),
		zap.String("order_id", p.OrderID),
	)
	uc.publishStatusChange(p)
	return p, nil
}

func (uc *paymentUseCase) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, payment.ErrNotFound
	}
	return p, nil
}

func (uc *paymentUseCase) GetPaymentByOrder(ctx context.Context, orderID string) (*model.Payment, error) {
	p, err := uc.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, payment.ErrNotFound
	}
	return p, nil
}

func (uc *paymentUseCase) publishStatusChange(p *model.Payment) {
	uc.bus.Publish(model.PaymentStatusChangedEvent{
		PaymentID:  p.ID,
		OrderID:    p.OrderID,
		UserID:     p.UserID,
		Status:     p.Status,
		OccurredAt: time.Now(),
	})
}
