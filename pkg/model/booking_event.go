package model

import "time"

const (
	EventBookingCreated = "booking.created"
	EventSource         = "carrental"
)

// BookingEventType names the event published when a booking enters status.
func BookingEventType(status string) string {
	return "booking." + status
}

type BookingEvent struct {
	EventID       string    `json:"event_id" bson:"_id"`
	EventType     string    `json:"event_type" bson:"event_type"`
	BookingID     string    `json:"booking_id" bson:"booking_id"`
	CarID         string    `json:"car_id" bson:"car_id"`
	UserID        string    `json:"user_id" bson:"user_id"`
	DriverID      string    `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	FromStatus    string    `json:"from_status,omitempty" bson:"from_status,omitempty"`
	Status        string    `json:"status" bson:"status"`
	PaymentStatus string    `json:"payment_status" bson:"payment_status"`
	TotalPrice    float64   `json:"total_price" bson:"total_price"`
	OccurredAt    time.Time `json:"occurred_at" bson:"occurred_at"`
	ReceivedAt    time.Time `json:"received_at,omitempty" bson:"received_at"`
}

func NewBookingEvent(eventType, fromStatus string, b *Booking) *BookingEvent {
	return &BookingEvent{
		EventType:     eventType,
		BookingID:     b.ID,
		CarID:         b.CarID,
		UserID:        b.UserID,
		DriverID:      b.DriverID,
		FromStatus:    fromStatus,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalPrice:    b.TotalPrice,
		OccurredAt:    time.Now().UTC(),
	}
}
