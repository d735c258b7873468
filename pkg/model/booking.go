package model

import (
	"time"
)

const (
	BookingStatusPending         = "pending"
	BookingStatusConfirmed       = "confirmed"
	BookingStatusAccepted        = "accepted"
	BookingStatusActive          = "active"
	BookingStatusCompleted       = "completed"
	BookingStatusCancelled       = "cancelled"
	BookingStatusDriverCancelled = "driver_cancelled"
	BookingStatusRejected        = "rejected"

	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"

	PaymentMethodOnline = "online"
	PaymentMethodCash   = "cash"

	DriverOptionWithDriver = "with-driver"
	DriverOptionSelfDrive  = "self-drive"

	BookingTypeDaily  = "daily"
	BookingTypeHourly = "hourly"
)

// OccupyingStatuses are the states in which a booking holds a vehicle unit.
var OccupyingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusAccepted,
	BookingStatusActive,
}

func IsOccupying(status string) bool {
	for _, s := range OccupyingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	switch status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected, BookingStatusDriverCancelled:
		return true
	}
	return false
}

type RentalDuration struct {
	Days  int `json:"days" bson:"days"`
	Hours int `json:"hours" bson:"hours"`
}

type Booking struct {
	ID                 string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CarID              string         `json:"car_id" bson:"car_id" validate:"required,mongodb"`
	CarName            string         `json:"car_name" bson:"car_name"`
	CarPrice           float64        `json:"car_price" bson:"car_price"`
	UserID             string         `json:"user_id" bson:"user_id" validate:"required"`
	UserEmail          string         `json:"user_email,omitempty" bson:"user_email,omitempty" validate:"omitempty,email"`
	StartTime          time.Time      `json:"start_time" bson:"start_time" validate:"required"`
	EndTime            time.Time      `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	PickupLocation     string         `json:"pickup_location" bson:"pickup_location" validate:"required,min=2,max=200"`
	DropoffLocation    string         `json:"dropoff_location" bson:"dropoff_location" validate:"omitempty,min=2,max=200"`
	DriverOption       string         `json:"driver_option" bson:"driver_option" validate:"required,oneof=with-driver self-drive"`
	DrivingLicense     string         `json:"driving_license,omitempty" bson:"driving_license,omitempty" validate:"required_if=DriverOption self-drive,omitempty,min=5,max=32"`
	LicenseExpiry      *time.Time     `json:"license_expiry,omitempty" bson:"license_expiry,omitempty" validate:"required_if=DriverOption self-drive,omitempty,future"`
	LicenseState       string         `json:"license_state,omitempty" bson:"license_state,omitempty" validate:"required_if=DriverOption self-drive,omitempty,min=2,max=64"`
	BookingType        string         `json:"booking_type" bson:"booking_type" validate:"required,oneof=daily hourly"`
	RentalDuration     RentalDuration `json:"rental_duration" bson:"rental_duration"`
	TotalPrice         float64        `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status             string         `json:"status" bson:"status" validate:"required,booking_status"`
	PaymentMethod      string         `json:"payment_method" bson:"payment_method" validate:"required,oneof=online cash"`
	PaymentStatus      string         `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending success failed"`
	OrderID            string         `json:"order_id,omitempty" bson:"order_id,omitempty"`
	PaymentID          string         `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	Signature          string         `json:"-" bson:"signature,omitempty"`
	DriverID           string         `json:"driver_id,omitempty" bson:"driver_id,omitempty" validate:"omitempty,mongodb"`
	CancellationReason string         `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CreatedAt          time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" bson:"updated_at"`
}

// Interval returns the booking's half-open [start, end) occupancy window.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// BookingRequest is the admission input. Prices, status and payment status are
// never taken from the caller.
type BookingRequest struct {
	CarID           string     `json:"car_id"`
	UserID          string     `json:"-"`
	UserEmail       string     `json:"-"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location,omitempty"`
	DriverOption    string     `json:"driver_option,omitempty"`
	DrivingLicense  string     `json:"driving_license,omitempty"`
	LicenseExpiry   *time.Time `json:"license_expiry,omitempty"`
	LicenseState    string     `json:"license_state,omitempty"`
	BookingType     string     `json:"booking_type,omitempty"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	OrderID         string     `json:"order_id,omitempty"`
	PaymentID       string     `json:"payment_id,omitempty"`
	Signature       string     `json:"signature,omitempty"`
}

// BookingReceipt is what admission hands back to the requester.
type BookingReceipt struct {
	ID            string    `json:"id"`
	CarName       string    `json:"car_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentID     string    `json:"payment_id,omitempty"`
	DriverID      string    `json:"driver_id,omitempty"`
}

func (b *Booking) Receipt() *BookingReceipt {
	return &BookingReceipt{
		ID:            b.ID,
		CarName:       b.CarName,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		PaymentID:     b.PaymentID,
		DriverID:      b.DriverID,
	}
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type DriverCancelRequest struct {
	BookingID string `json:"booking_id" validate:"required,mongodb"`
	DriverID  string `json:"driver_id" validate:"required,mongodb"`
	Reason    string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
