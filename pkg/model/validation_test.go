package model

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"adjacent after", Interval{at(10, 0), at(11, 0)}, Interval{at(11, 0), at(12, 0)}, false},
		{"adjacent before", Interval{at(11, 0), at(12, 0)}, Interval{at(10, 0), at(11, 0)}, false},
		{"partial overlap", Interval{at(10, 0), at(11, 30)}, Interval{at(11, 0), at(12, 0)}, true},
		{"contained", Interval{at(9, 0), at(13, 0)}, Interval{at(10, 0), at(11, 0)}, true},
		{"identical", Interval{at(10, 0), at(11, 0)}, Interval{at(10, 0), at(11, 0)}, true},
		{"disjoint", Interval{at(8, 0), at(9, 0)}, Interval{at(10, 0), at(11, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() is not symmetric")
			}
		})
	}
}

func TestInterval_Valid(t *testing.T) {
	if (Interval{at(10, 0), at(10, 0)}).Valid() {
		t.Error("zero-length interval should be invalid")
	}
	if (Interval{at(11, 0), at(10, 0)}).Valid() {
		t.Error("reversed interval should be invalid")
	}
	if !(Interval{at(10, 0), at(10, 1)}).Valid() {
		t.Error("one minute interval should be valid")
	}
}

func TestBookingStatusSets(t *testing.T) {
	occupying := map[string]bool{
		BookingStatusPending:         true,
		BookingStatusConfirmed:       true,
		BookingStatusAccepted:        true,
		BookingStatusActive:          true,
		BookingStatusCompleted:       false,
		BookingStatusCancelled:       false,
		BookingStatusDriverCancelled: false,
		BookingStatusRejected:        false,
	}
	for status, want := range occupying {
		if got := IsOccupying(status); got != want {
			t.Errorf("IsOccupying(%s) = %v, want %v", status, got, want)
		}
		if IsOccupying(status) && IsTerminal(status) {
			t.Errorf("%s cannot be both occupying and terminal", status)
		}
	}
}

func TestCar_Units(t *testing.T) {
	var nilCar *Car
	tests := []struct {
		name string
		car  *Car
		want int
	}{
		{"nil car", nilCar, 1},
		{"unset inventory", &Car{}, 1},
		{"negative inventory", &Car{Inventory: -3}, 1},
		{"fleet", &Car{Inventory: 4}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.car.Units(); got != tt.want {
				t.Errorf("Units() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCar_RequiredFields(t *testing.T) {
	validate := validator.New()
	valid := Car{
		Name: "Hyundai Verna", Brand: "Hyundai", Model: "Verna", Year: 2022,
		Price: 2900, Category: "Sedan", Fuel: "Petrol", Transmission: "Manual",
		Seats: 5, Doors: 4, Inventory: 1,
	}

	tests := []struct {
		name        string
		mutate      func(c *Car)
		expectValid bool
	}{
		{"valid car", func(c *Car) {}, true},
		{"missing name", func(c *Car) { c.Name = "" }, false},
		{"zero price", func(c *Car) { c.Price = 0 }, false},
		{"unknown fuel", func(c *Car) { c.Fuel = "Steam" }, false},
		{"too many seats", func(c *Car) { c.Seats = 40 }, false},
		{"negative hourly rate", func(c *Car) { c.HourlyRate = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := valid
			tt.mutate(&car)
			err := validate.Struct(&car)
			if (err == nil) != tt.expectValid {
				t.Errorf("expectValid=%v, got err=%v", tt.expectValid, err)
			}
		})
	}
}
