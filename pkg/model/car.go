package model

import "time"

const DefaultCarImage = "/placeholder-car.svg"

type Car struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Brand        string    `json:"brand" bson:"brand" validate:"required,min=2,max=60"`
	Model        string    `json:"model" bson:"model" validate:"required,min=1,max=60"`
	Year         int       `json:"year" bson:"year" validate:"required,min=1990,max=2100"`
	Price        float64   `json:"price" bson:"price" validate:"required,gt=0"`
	HourlyRate   float64   `json:"hourly_rate,omitempty" bson:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	Category     string    `json:"category" bson:"category" validate:"required,min=2,max=40"`
	Fuel         string    `json:"fuel" bson:"fuel" validate:"required,oneof=Petrol Diesel Electric Hybrid CNG"`
	Transmission string    `json:"transmission" bson:"transmission" validate:"required,oneof=Manual Automatic"`
	Seats        int       `json:"seats" bson:"seats" validate:"required,min=1,max=20"`
	Doors        int       `json:"doors" bson:"doors" validate:"required,min=2,max=6"`
	Image        string    `json:"image" bson:"image" validate:"omitempty,max=500"`
	Features     []string  `json:"features" bson:"features" validate:"omitempty,max=30,dive,min=1,max=50"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Available    bool      `json:"available" bson:"available"`
	Inventory    int       `json:"inventory" bson:"inventory" validate:"min=0,max=1000"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Units is the number of interchangeable vehicles behind this catalog entry.
func (c *Car) Units() int {
	if c == nil || c.Inventory <= 0 {
		return 1
	}
	return c.Inventory
}

type CarUpdate struct {
	Name         string    `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Brand        string    `json:"brand,omitempty" bson:"brand,omitempty" validate:"omitempty,min=2,max=60"`
	Model        string    `json:"model,omitempty" bson:"model,omitempty" validate:"omitempty,min=1,max=60"`
	Year         *int      `json:"year,omitempty" bson:"year,omitempty" validate:"omitempty,min=1990,max=2100"`
	Price        *float64  `json:"price,omitempty" bson:"price,omitempty" validate:"omitempty,gt=0"`
	HourlyRate   *float64  `json:"hourly_rate,omitempty" bson:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Category     string    `json:"category,omitempty" bson:"category,omitempty" validate:"omitempty,min=2,max=40"`
	Fuel         string    `json:"fuel,omitempty" bson:"fuel,omitempty" validate:"omitempty,oneof=Petrol Diesel Electric Hybrid CNG"`
	Transmission string    `json:"transmission,omitempty" bson:"transmission,omitempty" validate:"omitempty,oneof=Manual Automatic"`
	Seats        *int      `json:"seats,omitempty" bson:"seats,omitempty" validate:"omitempty,min=1,max=20"`
	Doors        *int      `json:"doors,omitempty" bson:"doors,omitempty" validate:"omitempty,min=2,max=6"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty" validate:"omitempty,max=500"`
	Features     *[]string `json:"features,omitempty" bson:"features,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Available    *bool     `json:"available,omitempty" bson:"available,omitempty"`
	Inventory    *int      `json:"inventory,omitempty" bson:"inventory,omitempty" validate:"omitempty,min=0,max=1000"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
}

type CarAvailabilityUpdate struct {
	Available *bool `json:"available" validate:"required"`
}

// SeedResult reports what a catalog seed did. Existing is set when the
// catalog already held cars and nothing was inserted.
type SeedResult struct {
	Inserted int   `json:"inserted"`
	Existing int64 `json:"existing,omitempty"`
}
