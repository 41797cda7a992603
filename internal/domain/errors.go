package domain

import "errors"

var (
	// ErrEmptyCart aborts a checkout before any external call is made.
	ErrEmptyCart = errors.New("cart is empty")

	ErrNotFound = errors.New("not found")

	// ErrPaymentFailed wraps a payment transport or provider failure.
	// It is the only external failure that aborts a checkout; no local
	// writes exist when it is returned.
	ErrPaymentFailed = errors.New("payment failed")
)
