package model

import "time"

const (
	DriverStatusAvailable = "available"
	DriverStatusBusy      = "busy"
	DriverStatusInactive  = "inactive"

	DefaultDriverRating = 4.5
)

type Driver struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email         string    `json:"email" bson:"email" validate:"required,email"`
	Phone         string    `json:"phone" bson:"phone" validate:"required,e164"`
	LicenseNumber string    `json:"license_number" bson:"license_number" validate:"required,min=5,max=32"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=available busy inactive"`
	Location      string    `json:"location,omitempty" bson:"location,omitempty"`
	Rating        float64   `json:"rating" bson:"rating" validate:"min=0,max=5"`
	Vehicle       string    `json:"vehicle,omitempty" bson:"vehicle,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type DriverProfile struct {
	Driver        *Driver `json:"driver"`
	TotalRides    int64   `json:"total_rides"`
	TotalEarnings float64 `json:"total_earnings"`
}

// DailyEarnings covers completed rides whose end falls on Date (UTC).
type DailyEarnings struct {
	Date   string  `json:"date"`
	Rides  int     `json:"rides"`
	Amount float64 `json:"amount"`
}

type DriverEarnings struct {
	DriverID string          `json:"driver_id"`
	Days     []DailyEarnings `json:"days"`
	Total    float64         `json:"total"`
}
