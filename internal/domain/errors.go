package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart is returned when an operation needs at least one line item.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIntakeClosed is returned while custom orders are switched off.
	ErrIntakeClosed = errors.New("custom printing is currently paused")
	// ErrInvalidPrice is returned for a line item priced below zero or above
	// MaxPrice.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrCartTotalOverflow is returned when an item would push the cart total
	// past what an int64 holds.
	ErrCartTotalOverflow = errors.New("cart total too large")
)
