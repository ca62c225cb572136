package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feira/internal/logging"
	"feira/internal/metrics"
	"feira/internal/models"
	"feira/internal/repositories"

	"github.com/shopspring/decimal"
)

// Event types published by OrderService.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)

// EventPublisher delivers domain events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// OrderItemInput is one requested line. Name and Price are only used as
// snapshots when client prices are trusted; Name also labels lookup errors.
type OrderItemInput struct {
	ProductID string
	Name      string
	Price     *float64
	Quantity  int
}

// CreateOrderInput is a customer order placed on a vendor's storefront.
type CreateOrderInput struct {
	VendorID        string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Notes           *string
	Items           []OrderItemInput
}

func (in CreateOrderInput) validate() error {
	switch {
	case strings.TrimSpace(in.VendorID) == "":
		return fmt.Errorf("%w: vendor_id is required", ErrValidation)
	case strings.TrimSpace(in.CustomerName) == "":
		return fmt.Errorf("%w: cliente_nome is required", ErrValidation)
	case strings.TrimSpace(in.CustomerPhone) == "":
		return fmt.Errorf("%w: cliente_telefone is required", ErrValidation)
	case strings.TrimSpace(in.CustomerAddress) == "":
		return fmt.Errorf("%w: cliente_endereco is required", ErrValidation)
	case len(in.Items) == 0:
		return fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("%w: items[%d].product_id is required", ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantidade must be positive", ErrValidation, i)
		}
		if item.Price != nil && *item.Price < 0 {
			return fmt.Errorf("%w: items[%d].preco must not be negative", ErrValidation, i)
		}
	}
	return nil
}

// OrderList is one page of a vendor's orders.
type OrderList struct {
	Total int64          `json:"total"`
	Items []models.Order `json:"items"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo         repositories.OrderRepository
	productRepo       repositories.ProductRepository
	vendorRepo        repositories.VendorRepository
	publisher         EventPublisher // optional
	trustClientPrices bool
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, vendorRepo repositories.VendorRepository, publisher EventPublisher, trustClientPrices bool) *OrderService {
	return &OrderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		vendorRepo:        vendorRepo,
		publisher:         publisher,
		trustClientPrices: trustClientPrices,
	}
}

type reservation struct {
	productID string
	quantity  int
}

// CreateOrder validates the requested items against the vendor's catalog,
// takes the stock with one conditional decrement per line and stores the
// order as "novo". Any failure after the first decrement gives the stock back.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (order *models.Order, err error) {
	defer func() {
		if err != nil {
			metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		}
	}()

	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.vendorRepo.GetByID(ctx, in.VendorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: store not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}

	// Validate phase: read only.
	products := make(map[string]*models.Product, len(in.Items))
	requested := make(map[string]int, len(in.Items))
	for _, item := range in.Items {
		product, ok := products[item.ProductID]
		if !ok {
			product, err = s.productRepo.GetByID(ctx, item.ProductID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
			}
			if product == nil || product.VendorID != in.VendorID {
				return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, itemLabel(item))
			}
			products[item.ProductID] = product
		}
		requested[item.ProductID] += item.Quantity
		if product.Quantity < requested[item.ProductID] {
			return nil, fmt.Errorf("%w for product %s (requested: %d, available: %d)",
				ErrInsufficientStock, product.Name, requested[item.ProductID], product.Quantity)
		}
	}

	// Commit phase.
	reserved := make([]reservation, 0, len(in.Items))
	for _, item := range in.Items {
		if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.compensate(ctx, reserved)
			product := products[item.ProductID]
			switch {
			case errors.Is(err, repositories.ErrInsufficientStock):
				metrics.StockConflicts.Inc()
				return nil, fmt.Errorf("%w for product %s", ErrInsufficientStock, product.Name)
			case errors.Is(err, repositories.ErrNotFound):
				return nil, fmt.Errorf("%w: product %s not found", ErrNotFound, itemLabel(item))
			default:
				return nil, fmt.Errorf("failed to reserve stock: %w", err)
			}
		}
		reserved = append(reserved, reservation{productID: item.ProductID, quantity: item.Quantity})
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, item := range in.Items {
		line := s.snapshot(products[item.ProductID], item)
		items = append(items, line)
		total = total.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order = &models.Order{
		VendorID:        in.VendorID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		Notes:           in.Notes,
		Items:           items,
		Total:           total.Round(2).InexactFloat64(),
		Status:          models.OrderStatusNew,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.compensate(ctx, reserved)
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	metrics.OrdersCreated.Inc()
	logging.FromContext(ctx).Info("order created", "order_id", order.ID, "vendor_id", order.VendorID, "total", order.Total)
	s.publish(ctx, EventOrderCreated, map[string]interface{}{
		"order_id":  order.ID,
		"vendor_id": order.VendorID,
		"status":    order.Status,
		"total":     order.Total,
		"items":     order.Items,
	})
	return order, nil
}

func (s *OrderService) snapshot(product *models.Product, item OrderItemInput) models.OrderItem {
	line := models.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  item.Quantity,
	}
	if s.trustClientPrices {
		if item.Name != "" {
			line.Name = item.Name
		}
		if item.Price != nil {
			line.Price = *item.Price
		}
	}
	return line
}

// compensate gives back stock taken by a failed order. Failures are logged,
// never returned, so the caller still reports the original error.
func (s *OrderService) compensate(ctx context.Context, reserved []reservation) {
	log := logging.FromContext(ctx)
	for _, r := range reserved {
		if err := s.productRepo.IncrementStock(ctx, r.productID, r.quantity); err != nil {
			metrics.StockCompensations.WithLabelValues("failed").Inc()
			log.Error("stock compensation failed", "product_id", r.productID, "quantity", r.quantity, "error", err)
			continue
		}
		metrics.StockCompensations.WithLabelValues("ok").Inc()
	}
}

// ListMyOrders returns one page of the vendor's orders in insertion order.
func (s *OrderService) ListMyOrders(ctx context.Context, vendorID string, page Page) (*OrderList, error) {
	items, total, err := s.orderRepo.ListByVendor(ctx, vendorID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &OrderList{Total: total, Items: items}, nil
}

// UpdateOrderStatus moves an order owned by the vendor to status, which may
// be given in Portuguese or English.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, vendorID, orderID, status string) error {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
	}

	order, err := s.orderRepo.GetByID(ctx, vendorID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return fmt.Errorf("failed to load order: %w", err)
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move order from %s to %s", ErrValidation, order.Status, next)
	}

	if err := s.orderRepo.UpdateStatus(ctx, vendorID, orderID, order.Status, next); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStatusChanged):
			return fmt.Errorf("%w: order %s", ErrStatusConflict, orderID)
		case errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		default:
			return fmt.Errorf("failed to update order status for order %s: %w", orderID, err)
		}
	}

	metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
	s.publish(ctx, EventOrderStatusUpdated, map[string]interface{}{
		"order_id":  orderID,
		"vendor_id": vendorID,
		"from":      order.Status,
		"status":    next,
	})
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		logging.FromContext(ctx).Warn("failed to publish event", "type", eventType, "order_id", payload["order_id"], "error", err)
	}
}

func itemLabel(item OrderItemInput) string {
	if item.Name != "" {
		return item.Name
	}
	return item.ProductID
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "internal"
	}
}
