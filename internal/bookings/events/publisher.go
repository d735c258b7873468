package events

import (
	"context"
	"fmt"

	"carrental/pkg/kafka"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/google/uuid"
)

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher writes booking events keyed by booking id, so consumers see
// the events of one booking in order.
type KafkaPublisher struct {
	producer messagePublisher
}

func NewKafkaPublisher(producer messagePublisher) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *model.BookingEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(event.EventType).
		WithSource(model.EventSource).
		WithCorrelationID(middleware.RequestID(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("build %s message: %w", event.EventType, err)
	}

	return p.producer.Publish(ctx, msg)
}
