package handlers

import (
	"feira/internal/middleware"
	"feira/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for a vendor's catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes; all of them require authRequired.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products", authRequired)
	productRoutes.Post("/", h.CreateProduct)
	productRoutes.Get("/my", h.ListMyProducts)
	productRoutes.Put("/:id", h.UpdateProduct)
	productRoutes.Delete("/:id", h.DeleteProduct)
}

// ProductRequest is the body of create and update; update replaces every field.
type ProductRequest struct {
	Name        string   `json:"nome" validate:"required,max=200"`
	Description string   `json:"descricao"`
	Price       *float64 `json:"preco" validate:"required,gte=0"`
	Quantity    *int     `json:"quantidade" validate:"required,gte=0"`
	Category    string   `json:"categoria" validate:"required,max=100"`
	Image       *string  `json:"imagem"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Quantity:    *r.Quantity,
		Category:    r.Category,
		Image:       r.Image,
	}
}

// CreateProduct handles POST /products.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.CurrentVendor(c).ID, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// ListMyProducts handles GET /products/my?skip=&limit=.
func (h *ProductHandler) ListMyProducts(c *fiber.Ctx) error {
	list, err := h.service.ListMyProducts(c.UserContext(), middleware.CurrentVendor(c).ID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateProduct handles PUT /products/:id.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), middleware.CurrentVendor(c).ID, c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct handles DELETE /products/:id.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), middleware.CurrentVendor(c).ID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func pageFromQuery(c *fiber.Ctx) services.Page {
	return services.NewPage(c.QueryInt("skip", 0), c.QueryInt("limit", services.DefaultLimit))
}
