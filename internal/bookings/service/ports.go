package service

import (
	"context"

	"carrental/pkg/model"
)

// CarReader resolves catalog entries. Missing cars are reported with the
// cars package sentinels.
type CarReader interface {
	FindByID(ctx context.Context, id string) (*model.Car, error)
}

// DriverDirectory resolves the driver attached to with-driver bookings.
type DriverDirectory interface {
	DefaultDriver(ctx context.Context) (*model.Driver, error)
}

// NotificationWriter stores driver notifications. It is called inside the
// admission transaction.
type NotificationWriter interface {
	Create(ctx context.Context, notification *model.Notification) error
}

type PaymentVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event *model.BookingEvent) error
}

// NoopPublisher drops events. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *model.BookingEvent) error { return nil }
