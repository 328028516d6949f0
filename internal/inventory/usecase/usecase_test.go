package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omniorder/order-service/internal/inventory"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepo keeps products in memory and applies stock changes under a
// mutex, mirroring the conditional-update semantics of the SQL adapter.
type mockRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newMockRepo(products ...*model.Product) *mockRepo {
	m := &mockRepo{products: make(map[string]*model.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockRepo) GetProduct(_ context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) DecrementStock(_ context.Context, productID string, quantity int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok || p.QtyInStock < quantity {
		return 0, false, nil
	}
	p.QtyInStock -= quantity
	return p.QtyInStock, true, nil
}

func (m *mockRepo) IncrementStock(_ context.Context, productID string, quantity int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.products[productID]
	p.QtyInStock += quantity
	return p.QtyInStock, nil
}

func (m *mockRepo) Restock(_ context.Context, productID string, quantity int, at time.Time) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return 0, false, nil
	}
	if p.MaxStockLevel != nil && p.QtyInStock+quantity > *p.MaxStockLevel {
		return 0, false, nil
	}
	p.QtyInStock += quantity
	p.LastRestockDate = &at
	return p.QtyInStock, true, nil
}

func (m *mockRepo) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].QtyInStock
}

// recorder collects published events synchronously.
type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Publish(e model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}

func product(id string, stock, minLevel int) *model.Product {
	return &model.Product{
		BaseModel:     model.BaseModel{ID: id},
		Name:          "widget",
		Price:         decimal.RequireFromString("19.99"),
		IsAvailable:   true,
		QtyInStock:    stock,
		MinStockLevel: minLevel,
	}
}

func newLedger(repo inventory.Repository, bus *recorder) inventory.UseCase {
	return NewInventoryUseCase(repo, bus, logger.NewNop())
}

func TestReserve_Success(t *testing.T) {
	repo := newMockRepo(product("p1", 10, 2))
	bus := &recorder{}
	ledger := newLedger(repo, bus)

	res, err := ledger.Reserve(context.Background(), "p1", 3)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "p1", res.ProductID)
	assert.Equal(t, 3, res.Quantity)
	assert.True(t, res.UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 7, repo.stock("p1"))
	assert.Empty(t, bus.all())
}

func TestReserve_ProductNotFound(t *testing.T) {
	ledger := newLedger(newMockRepo(), &recorder{})

	_, err := ledger.Reserve(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

func TestReserve_Unavailable(t *testing.T) {
	p := product("p1", 10, 2)
	p.IsAvailable = false
	ledger := newLedger(newMockRepo(p), &recorder{})

	_, err := ledger.Reserve(context.Background(), "p1", 1)
	assert.ErrorIs(t, err, inventory.ErrProductUnavailable)
}

func TestReserve_InsufficientStock(t *testing.T) {
	repo := newMockRepo(product("p1", 2, 0))
	ledger := newLedger(repo, &recorder{})

	_, err := ledger.Reserve(context.Background(), "p1", 3)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 2, repo.stock("p1"))
}

func TestReserve_InvalidQuantity(t *testing.T) {
	ledger := newLedger(newMockRepo(product("p1", 10, 2)), &recorder{})

	_, err := ledger.Reserve(context.Background(), "p1", 0)
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
}

func TestReserve_LowStockEdgeTriggered(t *testing.T) {
	// min level 5, stock 6: reserving 2 crosses the threshold (6 -> 4) and
	// must emit exactly one low-stock event; reserving 1 more (4 -> 3)
	// stays inside the low band and must emit nothing.
	repo := newMockRepo(product("p1", 6, 5))
	bus := &recorder{}
	ledger := newLedger(repo, bus)

	_, err := ledger.Reserve(context.Background(), "p1", 2)
	require.NoError(t, err)

	events := bus.all()
	require.Len(t, events, 1)
	low, ok := events[0].(model.LowStockEvent)
	require.True(t, ok)
	assert.Equal(t, "p1", low.ProductID)
	assert.Equal(t, 4, low.Quantity)
	assert.Equal(t, 5, low.Threshold)

	_, err = ledger.Reserve(context.Background(), "p1", 1)
	require.NoError(t, err)
	assert.Len(t, bus.all(), 1)
}

func TestReserve_OutOfStockEdgeTriggered(t *testing.T) {
	repo := newMockRepo(product("p1", 2, 0))
	bus := &recorder{}
	ledger := newLedger(repo, bus)

	_, err := ledger.Reserve(context.Background(), "p1", 2)
	require.NoError(t, err)

	events := bus.all()
	require.Len(t, events, 2) // threshold 0 is crossed at the same time
	_, isLow := events[0].(model.LowStockEvent)
	_, isOut := events[1].(model.OutOfStockEvent)
	assert.True(t, isLow)
	assert.True(t, isOut)
}

func TestReserve_Concurrent_NoOverselling(t *testing.T) {
	const initialStock = 20
	const totalRequests = 50

	repo := newMockRepo(product("p1", initialStock, 0))
	ledger := newLedger(repo, &recorder{})

	var successCount, failCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Reserve(context.Background(), "p1", 1); err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	assert.Equal(t, int32(totalRequests-initialStock), failCount.Load())
	assert.Equal(t, 0, repo.stock("p1"))
}

func TestRelease_RestoresStock(t *testing.T) {
	repo := newMockRepo(product("p1", 10, 2))
	ledger := newLedger(repo, &recorder{})

	res, err := ledger.Reserve(context.Background(), "p1", 4)
	require.NoError(t, err)
	require.Equal(t, 6, repo.stock("p1"))

	require.NoError(t, ledger.Release(context.Background(), res))
	assert.Equal(t, 10, repo.stock("p1"))
}

func TestRestock(t *testing.T) {
	maxLevel := 15
	p := product("p1", 10, 2)
	p.MaxStockLevel = &maxLevel
	repo := newMockRepo(p)
	ledger := newLedger(repo, &recorder{})

	err := ledger.Restock(context.Background(), "p1", 0)
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	err = ledger.Restock(context.Background(), "missing", 5)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)

	err = ledger.Restock(context.Background(), "p1", 6)
	assert.ErrorIs(t, err, inventory.ErrExceedsMaxStock)
	assert.Equal(t, 10, repo.stock("p1"))

	require.NoError(t, ledger.Restock(context.Background(), "p1", 5))
	assert.Equal(t, 15, repo.stock("p1"))

	repo.mu.Lock()
	assert.NotNil(t, repo.products["p1"].LastRestockDate)
	repo.mu.Unlock()
}
