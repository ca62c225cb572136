package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feira/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMVendorRepository is a GORM implementation of VendorRepository.
type GORMVendorRepository struct {
	db *gorm.DB
}

// NewGORMVendorRepository creates a new instance of GORMVendorRepository.
func NewGORMVendorRepository(db *gorm.DB) *GORMVendorRepository {
	return &GORMVendorRepository{db: db}
}

func (r *GORMVendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("vendor %s: %w", vendor.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *GORMVendorRepository) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GORMVendorRepository) GetByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GORMVendorRepository) GetByStoreName(ctx context.Context, storeName string) (*models.Vendor, error) {
	return r.first(ctx, "store_name = ?", storeName)
}

func (r *GORMVendorRepository) first(ctx context.Context, query string, arg string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where(query, arg).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vendor %s: %w", arg, err)
	}
	return &vendor, nil
}

// List returns all vendors ordered by creation time, newest first.
func (r *GORMVendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}
