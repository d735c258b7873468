package model

import "time"

// VehicleLock is an advisory lock held while a booking for the vehicle is
// admitted. ID is the car id. A TTL index on ExpiresAt removes abandoned locks.
type VehicleLock struct {
	ID        string    `bson:"_id" json:"id"`
	Holder    string    `bson:"holder" json:"holder"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
