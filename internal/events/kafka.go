package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/pkg/broker"
	"github.com/omniorder/order-service/pkg/logger"
	"go.uber.org/zap"
)

// Envelope is the wire shape published to the broker.
type Envelope struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   model.Event `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// KafkaBridge forwards bus events to a Kafka topic for external consumers
// (the notifier fleet, analytics). Fire-and-forget: a failed write is logged
// and the event is gone.
type KafkaBridge struct {
	producer *broker.Producer
	events   <-chan model.Event
	logger   logger.ZapLogger
}

func NewKafkaBridge(producer *broker.Producer, events <-chan model.Event, log logger.ZapLogger) *KafkaBridge {
	return &KafkaBridge{
		producer: producer,
		events:   events,
		logger:   log,
	}
}

func (b *KafkaBridge) Start(ctx context.Context) {
	b.logger.Info("Starting Kafka event bridge")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping Kafka event bridge")
			return
		case ev, ok := <-b.events:
			if !ok {
				return
			}
			b.forward(ctx, ev)
		}
	}
}

func (b *KafkaBridge) forward(ctx context.Context, ev model.Event) {
	env := Envelope{
		EventID:   uuid.New().String(),
		EventType: ev.EventName(),
		Payload:   ev,
		Timestamp: time.Now(),
	}
	value, err := json.Marshal(env)
	if err != nil {
		b.logger.Error("Failed to marshal event", zap.String("event_type", ev.EventName()), zap.Error(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := b.producer.Publish(writeCtx, []byte(ev.EventName()), value); err != nil {
		b.logger.Error("Failed to publish event to kafka",
			zap.String("event_type", ev.EventName()),
			zap.Error(err),
		)
	}
}
