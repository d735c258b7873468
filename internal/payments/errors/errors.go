package errors

import "errors"

var (
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")

	ErrGatewayRejected = errors.New("payment gateway rejected the request")
)
