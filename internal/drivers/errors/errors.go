package errors

import "errors"

var (
	ErrNotFound = errors.New("driver not found")

	ErrInvalidID = errors.New("invalid driver ID format")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationActed    = errors.New("notification already acted on")
)
