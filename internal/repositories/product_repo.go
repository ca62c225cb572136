package repositories

import (
	"context"

	"feira/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// ListByVendor returns one page of the vendor's catalog in insertion order
	// together with the total number of products the vendor owns.
	ListByVendor(ctx context.Context, vendorID string, skip, limit int) ([]models.Product, int64, error)
	ListInStock(ctx context.Context, vendorID string) ([]models.Product, error)
	CountInStock(ctx context.Context, vendorID string) (int64, error)
	Categories(ctx context.Context, vendorID string) ([]string, error)
	// Update replaces the mutable fields of the product matching both
	// product.ID and product.VendorID.
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, vendorID, id string) error
	// DecrementStock atomically subtracts qty from the product's stock if, and
	// only if, at least qty units are available.
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}
