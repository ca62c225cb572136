package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"feira/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	order    []string // ids in insertion order
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("product %s: %w", product.ID, ErrDuplicate)
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

func (r *MemoryProductRepository) filter(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, id := range r.order {
		if p := r.products[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *MemoryProductRepository) ListByVendor(_ context.Context, vendorID string, skip, limit int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.filter(func(p models.Product) bool { return p.VendorID == vendorID })
	lo, hi := pageBounds(len(all), skip, limit)
	return append([]models.Product{}, all[lo:hi]...), int64(len(all)), nil
}

func (r *MemoryProductRepository) ListInStock(_ context.Context, vendorID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(p models.Product) bool { return p.VendorID == vendorID && p.Quantity > 0 }), nil
}

func (r *MemoryProductRepository) CountInStock(ctx context.Context, vendorID string) (int64, error) {
	products, err := r.ListInStock(ctx, vendorID)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

func (r *MemoryProductRepository) Categories(_ context.Context, vendorID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	categories := []string{}
	for _, p := range r.products {
		if p.VendorID != vendorID {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Update modifies an existing product owned by product.VendorID.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok || existing.VendorID != product.VendorID {
		return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	r.products[existing.ID] = *product
	return nil
}

// Delete removes a product owned by vendorID.
func (r *MemoryProductRepository) Delete(_ context.Context, vendorID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok || existing.VendorID != vendorID {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryProductRepository) DecrementStock(_ context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if p.Quantity < qty {
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}
	p.Quantity -= qty
	r.products[id] = p
	return nil
}

func (r *MemoryProductRepository) IncrementStock(_ context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	p.Quantity += qty
	r.products[id] = p
	return nil
}

// pageBounds clips [skip, skip+limit) to a slice of length n.
func pageBounds(n, skip, limit int) (int, int) {
	if skip > n {
		skip = n
	}
	end := skip + limit
	if end > n || limit < 0 {
		end = n
	}
	return skip, end
}
