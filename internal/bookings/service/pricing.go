package service

import (
	"math"

	"carrental/pkg/model"
)

// Price computes the total for renting car over interval.
//
// Daily bookings are charged per started day and hourly bookings per started
// hour; both charge at least one unit. Without an explicit hourly rate the
// hourly price is the daily price spread over 24 hours, rounded up.
func Price(car *model.Car, bookingType string, interval model.Interval) (float64, model.RentalDuration) {
	hours := interval.End.Sub(interval.Start).Hours()
	startedHours := max(1, int(math.Ceil(hours)))
	startedDays := max(1, int(math.Ceil(hours/24)))

	duration := model.RentalDuration{Days: startedDays, Hours: startedHours}

	if bookingType == model.BookingTypeHourly {
		rate := car.HourlyRate
		if rate <= 0 {
			rate = math.Ceil(car.Price / 24)
		}
		return float64(startedHours) * rate, duration
	}
	return float64(startedDays) * car.Price, duration
}
