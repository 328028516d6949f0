package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/omniorder/order-service/internal/events"
	"github.com/omniorder/order-service/internal/inventory"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/pkg/logger"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	bus    events.Publisher
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, bus events.Publisher, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		bus:    bus,
		logger: log,
	}
}

func (uc *inventoryUseCase) Reserve(ctx context.Context, productID string, quantity int) (*model.Reservation, error) {
	if quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}

	p, err := uc.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, inventory.ErrProductNotFound
	}
	if !p.IsAvailable {
		return nil, inventory.ErrProductUnavailable
	}

	remaining, ok, err := uc.repo.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, inventory.ErrInsufficientStock
	}

	// The conditional update returned the post-decrement level, so the
	// before/after pair is race-free for this mutation.
	uc.emitThresholdEvents(p, remaining+quantity, remaining)

	uc.logger.Debug("Reserved stock",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", remaining),
	)

	return &model.Reservation{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  p.Price,
		ReservedAt: time.Now(),
	}, nil
}

func (uc *inventoryUseCase) Release(ctx context.Context, res *model.Reservation) error {
	remaining, err := uc.repo.IncrementStock(ctx, res.ProductID, res.Quantity)
	if err != nil {
		return fmt.Errorf("release reservation %s: %w", res.ID, err)
	}

	uc.logger.Debug("Released stock",
		zap.String("product_id", res.ProductID),
		zap.Int("quantity", res.Quantity),
		zap.Int("remaining", remaining),
	)
	return nil
}

func (uc *inventoryUseCase) Restock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return inventory.ErrInvalidQuantity
	}

	p, err := uc.repo.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return inventory.ErrProductNotFound
	}

	remaining, ok, err := uc.repo.Restock(ctx, productID, quantity, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return inventory.ErrExceedsMaxStock
	}

	uc.logger.Info("Restocked product",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", remaining),
	)
	return nil
}

// emitThresholdEvents publishes low-stock and out-of-stock events on the
// falling edge only: the mutation that crosses the threshold emits exactly
// one event, mutations deeper into the triggered band emit nothing.
func (uc *inventoryUseCase) emitThresholdEvents(p *model.Product, before, after int) {
	now := time.Now()

	if before > p.MinStockLevel && after <= p.MinStockLevel {
		uc.logger.Warn("Product stock fell below threshold",
			zap.String("product_id", p.ID),
			zap.Int("quantity", after),
			zap.Int("threshold", p.MinStockLevel),
		)
		uc.bus.Publish(model.LowStockEvent{
			ProductID:  p.ID,
			Quantity:   after,
			Threshold:  p.MinStockLevel,
			OccurredAt: now,
		})
	}

	if before > 0 && after == 0 {
		uc.logger.Warn("Product is out of stock", zap.String("product_id", p.ID))
		uc.bus.Publish(model.OutOfStockEvent{
			ProductID:  p.ID,
			OccurredAt: now,
		})
	}
}
