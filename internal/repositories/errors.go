package repositories

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInsufficientStock is returned by DecrementStock when the product
	// holds fewer units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStatusChanged is returned by UpdateStatus when the order is no longer
	// in the expected status.
	ErrStatusChanged = errors.New("order status changed concurrently")
)
