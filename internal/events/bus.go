package events

import (
	"sync"

	"github.com/omniorder/order-service/internal/model"
)

// Publisher is the side the domain components see. The inventory ledger and
// order service receive one at construction time so tests can assert on
// emitted events without process-wide state.
type Publisher interface {
	Publish(event model.Event)
}

// Bus fans events out to subscriber channels. Delivery is at-most-once and
// non-blocking: a full or absent subscriber loses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan model.Event
	buffer int
	closed bool
}

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{buffer: buffer}
}

// Subscribe registers a new subscriber channel. The channel is closed when
// the bus is closed.
func (b *Bus) Subscribe() <-chan model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan model.Event, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bus) Publish(event model.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			// subscriber is behind; drop
		}
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// NopPublisher discards every event. Useful where no subscriber is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(model.Event) {}
