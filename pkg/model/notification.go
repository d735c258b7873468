package model

import "time"

const (
	NotificationUnread = "unread"
	NotificationRead   = "read"

	NotificationActionPending  = "pending"
	NotificationActionAccepted = "accepted"
	NotificationActionRejected = "rejected"
)

// Notification is addressed either to a driver or to a user, never both.
type Notification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	DriverID  string    `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	BookingID string    `json:"booking_id" bson:"booking_id"`
	Message   string    `json:"message" bson:"message"`
	Status    string    `json:"status" bson:"status"`
	Action    string    `json:"action" bson:"action"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type NotificationAction struct {
	Action string `json:"action" validate:"required,oneof=accepted rejected"`
}

type NotificationActionResult struct {
	Message string `json:"message"`
	Alert   string `json:"alert"`
	Booking string `json:"booking_id"`
	Status  string `json:"status"`
}
