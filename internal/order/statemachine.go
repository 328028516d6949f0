package order

import (
	"fmt"
	"time"

	"github.com/omniorder/order-service/internal/model"
)

// TransitionTable maps a status to the statuses reachable from it.
// Directed edges only: the reverse of an edge is not implied.
type TransitionTable map[model.OrderStatus][]model.OrderStatus

// StandardTransitions is the default fulfilment flow. Cancellation is only
// reachable before preparation starts.
var StandardTransitions = TransitionTable{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusPreparing, model.OrderStatusCancelled},
	model.OrderStatusPreparing: {model.OrderStatusReady},
	model.OrderStatusReady:     {model.OrderStatusDelivered},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

// ReturnsTransitions extends the standard flow with the payment-linked
// return path after delivery.
var ReturnsTransitions = TransitionTable{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusPreparing, model.OrderStatusCancelled},
	model.OrderStatusPreparing: {model.OrderStatusReady},
	model.OrderStatusReady:     {model.OrderStatusDelivered},
	model.OrderStatusDelivered: {model.OrderStatusReturned},
	model.OrderStatusReturned:  {model.OrderStatusRefunded},
	model.OrderStatusRefunded:  {},
	model.OrderStatusCancelled: {},
}

// TableByName resolves a deployment-configured flow name. Unknown names
// fall back to the standard flow.
func TableByName(name string) TransitionTable {
	if name == "returns" {
		return ReturnsTransitions
	}
	return StandardTransitions
}

// StateMachine validates and applies order status transitions. It is pure
// with respect to inventory: it never touches stock.
type StateMachine struct {
	table TransitionTable
}

func NewStateMachine(table TransitionTable) *StateMachine {
	return &StateMachine{table: table}
}

func (m *StateMachine) CanTransition(from, to model.OrderStatus) bool {
	for _, next := range m.table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition mutates the order's status and updated-at timestamp, or fails
// with ErrIllegalTransition when the edge is not in the table.
func (m *StateMachine) Transition(o *model.Order, to model.OrderStatus) error {
	if !m.CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}
