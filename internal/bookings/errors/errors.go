package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged means a conditional status update matched no document
	// because another writer moved the booking first.
	ErrStatusChanged = errors.New("booking status changed concurrently")

	ErrLockHeld = errors.New("vehicle lock is held by another admission")

	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
