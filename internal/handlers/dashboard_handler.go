package handlers

import (
	"feira/internal/middleware"
	"feira/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the vendor's sales summary.
type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/dashboard", authRequired, h.GetSummary)
}

func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), middleware.CurrentVendor(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
