package model

import "time"

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

// Overlaps reports whether i and o share any instant. Intervals that only
// touch at a boundary do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

type AvailabilityQuery struct {
	CarID     string    `json:"car_id" validate:"required,mongodb"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

type Availability struct {
	CarID          string     `json:"car_id"`
	Available      bool       `json:"available"`
	AvailableUnits int        `json:"available_units"`
	TotalUnits     int        `json:"total_units"`
	Conflicts      []Interval `json:"conflicts"`
	Message        string     `json:"message"`
	// Warning is set when storage could not be read and the result was
	// reported as available without verification.
	Warning string `json:"warning,omitempty"`
}
