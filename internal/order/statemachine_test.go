package order

import (
	"testing"

	"github.com/omniorder/order-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardTransitions_Legality(t *testing.T) {
	m := NewStateMachine(StandardTransitions)

	legal := []struct{ from, to model.OrderStatus }{
		{model.OrderStatusPending, model.OrderStatusConfirmed},
		{model.OrderStatusPending, model.OrderStatusCancelled},
		{model.OrderStatusConfirmed, model.OrderStatusPreparing},
		{model.OrderStatusConfirmed, model.OrderStatusCancelled},
		{model.OrderStatusPreparing, model.OrderStatusReady},
		{model.OrderStatusReady, model.OrderStatusDelivered},
	}
	for _, tc := range legal {
		assert.True(t, m.CanTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	illegal := []struct{ from, to model.OrderStatus }{
		{model.OrderStatusPending, model.OrderStatusDelivered},
		{model.OrderStatusPending, model.OrderStatusPreparing},
		{model.OrderStatusConfirmed, model.OrderStatusPending}, // no reverse edges
		{model.OrderStatusPreparing, model.OrderStatusCancelled},
		{model.OrderStatusReady, model.OrderStatusCancelled},
		{model.OrderStatusDelivered, model.OrderStatusReturned}, // standard flow has no returns
		{model.OrderStatusDelivered, model.OrderStatusPending},
		{model.OrderStatusCancelled, model.OrderStatusPending},
	}
	for _, tc := range illegal {
		assert.False(t, m.CanTransition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestReturnsTransitions_ExtendsDelivered(t *testing.T) {
	m := NewStateMachine(ReturnsTransitions)

	assert.True(t, m.CanTransition(model.OrderStatusDelivered, model.OrderStatusReturned))
	assert.True(t, m.CanTransition(model.OrderStatusReturned, model.OrderStatusRefunded))
	assert.False(t, m.CanTransition(model.OrderStatusRefunded, model.OrderStatusReturned))
	assert.False(t, m.CanTransition(model.OrderStatusReturned, model.OrderStatusDelivered))
}

func TestTransition_MutatesOrder(t *testing.T) {
	m := NewStateMachine(StandardTransitions)
	o := &model.Order{Status: model.OrderStatusPending}

	require.NoError(t, m.Transition(o, model.OrderStatusConfirmed))
	assert.Equal(t, model.OrderStatusConfirmed, o.Status)
	assert.False(t, o.UpdatedAt.IsZero())

	err := m.Transition(o, model.OrderStatusDelivered)
	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, model.OrderStatusConfirmed, o.Status, "failed transition must not mutate")
}

func TestTableByName(t *testing.T) {
	assert.True(t, NewStateMachine(TableByName("returns")).CanTransition(model.OrderStatusDelivered, model.OrderStatusReturned))
	assert.False(t, NewStateMachine(TableByName("standard")).CanTransition(model.OrderStatusDelivered, model.OrderStatusReturned))
	assert.False(t, NewStateMachine(TableByName("")).CanTransition(model.OrderStatusDelivered, model.OrderStatusReturned))
}
