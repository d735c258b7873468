package service

import (
	"testing"
	"time"

	"carrental/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	dzire := &model.Car{Price: 3750}
	thar := &model.Car{Price: 3200, HourlyRate: 150}

	tests := []struct {
		name        string
		car         *model.Car
		bookingType string
		length      time.Duration
		wantTotal   float64
		wantDays    int
		wantHours   int
	}{
		{"one full day", dzire, model.BookingTypeDaily, 24 * time.Hour, 3750, 1, 24},
		{"short daily rental charges a day", dzire, model.BookingTypeDaily, 2 * time.Hour, 3750, 1, 2},
		{"started day is charged", dzire, model.BookingTypeDaily, 25 * time.Hour, 7500, 2, 25},
		{"three days", dzire, model.BookingTypeDaily, 72 * time.Hour, 11250, 3, 72},
		{"hourly falls back to daily over 24", dzire, model.BookingTypeHourly, 3 * time.Hour, 3 * 157, 1, 3},
		{"hourly uses explicit rate", thar, model.BookingTypeHourly, 4 * time.Hour, 600, 1, 4},
		{"started hour is charged", thar, model.BookingTypeHourly, 90 * time.Minute, 300, 1, 2},
		{"sub-hour hourly rental charges an hour", thar, model.BookingTypeHourly, 10 * time.Minute, 150, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, duration := Price(tt.car, tt.bookingType, model.Interval{Start: start, End: start.Add(tt.length)})
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantDays, duration.Days)
			assert.Equal(t, tt.wantHours, duration.Hours)
		})
	}
}
