package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"feira/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	order  []string
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("order %s: %w", order.ID, ErrDuplicate)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = copyOrder(*order)
	r.order = append(r.order, order.ID)
	return nil
}

// GetByID returns the order when it belongs to vendorID.
func (r *MemoryOrderRepository) GetByID(_ context.Context, vendorID, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok || o.VendorID != vendorID {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *MemoryOrderRepository) byVendor(vendorID string) []models.Order {
	out := []models.Order{}
	for _, id := range r.order {
		if o := r.orders[id]; o.VendorID == vendorID {
			out = append(out, copyOrder(o))
		}
	}
	return out
}

func (r *MemoryOrderRepository) ListByVendor(_ context.Context, vendorID string, skip, limit int) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.byVendor(vendorID)
	lo, hi := pageBounds(len(all), skip, limit)
	return all[lo:hi], int64(len(all)), nil
}

func (r *MemoryOrderRepository) ListAllByVendor(_ context.Context, vendorID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byVendor(vendorID), nil
}

// UpdateStatus sets the order status if it is still from.
func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, vendorID, id string, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.VendorID != vendorID {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if o.Status != from {
		return fmt.Errorf("order %s: %w", id, ErrStatusChanged)
	}
	o.Status = to
	r.orders[id] = o
	return nil
}
