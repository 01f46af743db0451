package service

import "errors"

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnlockCodeInvalid is returned when an unlock code is unknown or inactive
	ErrUnlockCodeInvalid = errors.New("invalid or expired unlock code")

	// ErrUnlockCodeExpired is returned when an unlock code's expiry is in the past
	ErrUnlockCodeExpired = errors.New("unlock code has expired")

	// ErrGatewayNotConfigured is returned when the gateway publishable key is absent
	ErrGatewayNotConfigured = errors.New("payment gateway key not configured")

	// ErrPaymentExists is returned when a payment with the same provider ID is already recorded
	ErrPaymentExists = errors.New("payment already recorded")

	// ErrPaymentNotFound is returned when a payment record cannot be found
	ErrPaymentNotFound = errors.New("payment record not found")
)
