package repositories

import (
	"context"

	"feira/internal/models"
)

// VendorRepository defines the interface for vendor data access.
type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, id string) (*models.Vendor, error)
	GetByEmail(ctx context.Context, email string) (*models.Vendor, error)
	GetByStoreName(ctx context.Context, storeName string) (*models.Vendor, error)
	// List returns every vendor, newest first.
	List(ctx context.Context) ([]models.Vendor, error)
}
