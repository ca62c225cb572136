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

// GORMOrderRepository is a GORM implementation of OrderRepository.
// Items live in their own table and are always loaded in insertion order.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// Create stores the order together with its items in one transaction.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, vendorID, id string) (*models.Order, error) {
	var order models.Order
	err := preloadItems(r.db.WithContext(ctx)).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByVendor(ctx context.Context, vendorID string, skip, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("vendor_id = ?", vendorID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders of vendor %s: %w", vendorID, err)
	}

	orders := make([]models.Order, 0, limit)
	err := preloadItems(r.db.WithContext(ctx)).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders of vendor %s: %w", vendorID, err)
	}
	return orders, total, nil
}

func (r *GORMOrderRepository) ListAllByVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := preloadItems(r.db.WithContext(ctx)).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of vendor %s: %w", vendorID, err)
	}
	return orders, nil
}

// UpdateStatus performs a compare-and-set on the status column.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, vendorID, id string, from, to models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND vendor_id = ? AND status = ?", id, vendorID, from).
		UpdateColumn("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ? AND vendor_id = ?", id, vendorID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check order %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("order %s: %w", id, ErrStatusChanged)
	}
	return nil
}
