package repositories

import (
	"context"

	"feira/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, vendorID, id string) (*models.Order, error)
	ListByVendor(ctx context.Context, vendorID string, skip, limit int) ([]models.Order, int64, error)
	ListAllByVendor(ctx context.Context, vendorID string) ([]models.Order, error)
	// UpdateStatus moves an order from one status to another. The write only
	// happens while the order is still in status from.
	UpdateStatus(ctx context.Context, vendorID, id string, from, to models.OrderStatus) error
	// Delete(id string) error // Orders are never deleted.
}
