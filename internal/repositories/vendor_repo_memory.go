package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"feira/internal/models"

	"github.com/google/uuid"
)

// MemoryVendorRepository is an in-memory implementation of VendorRepository.
type MemoryVendorRepository struct {
	vendors map[string]models.Vendor
	order   []string
	mu      sync.RWMutex
}

// NewMemoryVendorRepository creates a new instance of MemoryVendorRepository.
func NewMemoryVendorRepository() *MemoryVendorRepository {
	return &MemoryVendorRepository{
		vendors: make(map[string]models.Vendor),
	}
}

// Create adds a vendor, rejecting a taken email or store name.
func (r *MemoryVendorRepository) Create(_ context.Context, vendor *models.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.vendors {
		if v.Email == vendor.Email || v.StoreName == vendor.StoreName {
			return fmt.Errorf("vendor %s: %w", vendor.Email, ErrDuplicate)
		}
	}
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = time.Now().UTC()
	}
	r.vendors[vendor.ID] = *vendor
	r.order = append(r.order, vendor.ID)
	return nil
}

func (r *MemoryVendorRepository) GetByID(_ context.Context, id string) (*models.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vendors[id]
	if !ok {
		return nil, fmt.Errorf("vendor %s: %w", id, ErrNotFound)
	}
	return &v, nil
}

func (r *MemoryVendorRepository) GetByEmail(_ context.Context, email string) (*models.Vendor, error) {
	return r.find(email, func(v models.Vendor) bool { return v.Email == email })
}

func (r *MemoryVendorRepository) GetByStoreName(_ context.Context, storeName string) (*models.Vendor, error) {
	return r.find(storeName, func(v models.Vendor) bool { return v.StoreName == storeName })
}

func (r *MemoryVendorRepository) find(key string, match func(models.Vendor) bool) (*models.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vendors {
		if match(v) {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("vendor %s: %w", key, ErrNotFound)
}

// List returns all vendors, newest first.
func (r *MemoryVendorRepository) List(_ context.Context) ([]models.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vendors := make([]models.Vendor, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		vendors = append(vendors, r.vendors[r.order[i]])
	}
	return vendors, nil
}
