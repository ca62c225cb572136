package services

import "errors"

// Service-level error kinds. Callers wrap them with context using
// fmt.Errorf("%w: ...") and handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrStatusConflict    = errors.New("order status changed concurrently")
	ErrInsufficientStock = errors.New("insufficient stock")
)
