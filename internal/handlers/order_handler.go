package handlers

import (
	"feira/internal/middleware"
	"feira/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the order routes. Placing an order is public;
// the vendor's own views require authRequired.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.CreateOrder)
	orderRoutes.Get("/my", authRequired, h.ListMyOrders)
	orderRoutes.Put("/:id/status", authRequired, h.UpdateOrderStatus)
}

// OrderItemRequest is one requested line of an order.
type OrderItemRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Name      string   `json:"nome"`
	Price     *float64 `json:"preco" validate:"omitempty,gte=0"`
	Quantity  int      `json:"quantidade" validate:"gt=0"`
}

// CreateOrderRequest represents the body of POST /orders.
type CreateOrderRequest struct {
	VendorID        string             `json:"vendor_id" validate:"required"`
	CustomerName    string             `json:"cliente_nome" validate:"required,max=200"`
	CustomerPhone   string             `json:"cliente_telefone" validate:"required,max=40"`
	CustomerAddress string             `json:"cliente_endereco" validate:"required"`
	Notes           *string            `json:"observacoes"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	order, err := h.service.CreateOrder(c.UserContext(), services.CreateOrderInput{
		VendorID:        req.VendorID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
		Items:           items,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// ListMyOrders handles GET /orders/my?skip=&limit=.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	list, err := h.service.ListMyOrders(c.UserContext(), middleware.CurrentVendor(c).ID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateStatusRequest represents the body of PUT /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus handles PUT /orders/:id/status.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	if err := h.service.UpdateOrderStatus(c.UserContext(), middleware.CurrentVendor(c).ID, c.Params("id"), req.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated"})
}
