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

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// ListByVendor retrieves one page of a vendor's products.
func (r *GORMProductRepository) ListByVendor(ctx context.Context, vendorID string, skip, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("vendor_id = ?", vendorID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products of vendor %s: %w", vendorID, err)
	}

	products := make([]models.Product, 0, limit)
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products of vendor %s: %w", vendorID, err)
	}
	return products, total, nil
}

// ListInStock retrieves every product of the vendor with stock left.
func (r *GORMProductRepository) ListInStock(ctx context.Context, vendorID string) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND quantity > 0", vendorID).
		Order("created_at ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list in-stock products of vendor %s: %w", vendorID, err)
	}
	return products, nil
}

// CountInStock counts the vendor's products with stock left.
func (r *GORMProductRepository) CountInStock(ctx context.Context, vendorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("vendor_id = ? AND quantity > 0", vendorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count in-stock products of vendor %s: %w", vendorID, err)
	}
	return count, nil
}

// Categories returns the distinct categories across the vendor's whole catalog.
func (r *GORMProductRepository) Categories(ctx context.Context, vendorID string) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("vendor_id = ?", vendorID).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of vendor %s: %w", vendorID, err)
	}
	return categories, nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	var existing models.Product
	err := r.db.WithContext(ctx).First(&existing, "id = ? AND vendor_id = ?", product.ID, product.VendorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to load product %s for update: %w", product.ID, err)
	}

	// Map updates so zero values (price 0, quantity 0, nil image) are written too.
	res := r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"quantity":    product.Quantity,
		"category":    product.Category,
		"image":       product.Image,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	product.CreatedAt = existing.CreatedAt
	return nil
}

// Delete deletes a product owned by vendorID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, vendorID, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ? AND vendor_id = ?", id, vendorID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// DecrementStock subtracts qty from the product's stock in one conditional UPDATE.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check product %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

// IncrementStock adds qty back to the product's stock.
func (r *GORMProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}
