package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
	RoleClient = "client"
)

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	DriverID     string    `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// SignupRequest creates a user. Driver accounts either link an existing
// driver record or carry the phone and license needed to register one.
type SignupRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Role          string `json:"role,omitempty" validate:"omitempty,oneof=admin driver client"`
	DriverID      string `json:"driver_id,omitempty" validate:"omitempty,mongodb"`
	Phone         string `json:"phone,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
