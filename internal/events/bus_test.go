package events

import (
	"testing"
	"time"

	"github.com/omniorder/order-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FanOut(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	a := bus.Subscribe()
	b := bus.Subscribe()

	ev := model.LowStockEvent{ProductID: "p1", Quantity: 2, Threshold: 5, OccurredAt: time.Now()}
	bus.Publish(ev)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, ev, <-a)
	assert.Equal(t, ev, <-b)
}

func TestBus_NoSubscriberLosesEvent(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	// Nothing to assert beyond "does not block or panic".
	bus.Publish(model.OutOfStockEvent{ProductID: "p1"})

	ch := bus.Subscribe()
	assert.Len(t, ch, 0, "late subscriber must not see earlier events")
}

func TestBus_FullSubscriberDrops(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(model.OutOfStockEvent{ProductID: "p1"})
	bus.Publish(model.OutOfStockEvent{ProductID: "p2"}) // dropped, buffer full

	require.Len(t, ch, 1)
	got := (<-ch).(model.OutOfStockEvent)
	assert.Equal(t, "p1", got.ProductID)
}

func TestBus_CloseClosesSubscribers(t *testing.T) {
	bus := NewBus(1)
	ch := bus.Subscribe()
	bus.Close()

	_, ok := <-ch
	assert.False(t, ok)

	// Publish after close is a no-op.
	bus.Publish(model.OutOfStockEvent{ProductID: "p1"})
}
