package handlers

import (
	"feira/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler serves the public storefront pages.
type StoreHandler struct {
	service *services.StoreService
}

func NewStoreHandler(service *services.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stores/all", h.ListStores)
	router.Get("/loja/:nome_loja", h.GetStore)
	router.Get("/categorias/:nome_loja", h.GetCategories)
}

func (h *StoreHandler) ListStores(c *fiber.Ctx) error {
	stores, err := h.service.ListStores(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stores)
}

func (h *StoreHandler) GetStore(c *fiber.Ctx) error {
	page, err := h.service.GetStore(c.UserContext(), c.Params("nome_loja"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *StoreHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories(c.UserContext(), c.Params("nome_loja"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categorias": categories})
}
