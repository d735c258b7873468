package errors

import "errors"

var (
	ErrNotFound = errors.New("car not found")

	ErrInvalidID = errors.New("invalid car ID format")

	ErrHasActiveBookings = errors.New("car has active bookings")
)
