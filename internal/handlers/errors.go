package handlers

import (
	"errors"
	"fmt"

	"feira/internal/logging"
	"feira/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its HTTP status and writes the
// {"message", "error"} body. Unknown errors are logged and reported as 500
// without their detail.
func respondError(c *fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, services.ErrValidation):
		status, message = fiber.StatusBadRequest, "Validation failed"
	case errors.Is(err, services.ErrConflict):
		status, message = fiber.StatusBadRequest, "Already registered"
	case errors.Is(err, services.ErrInsufficientStock):
		status, message = fiber.StatusBadRequest, "Insufficient stock"
	case errors.Is(err, services.ErrUnauthenticated):
		status, message = fiber.StatusUnauthorized, "Authentication failed"
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrStatusConflict):
		status, message = fiber.StatusConflict, "Order was modified concurrently"
	}

	if status == fiber.StatusInternalServerError {
		logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{
			"message": message,
			"error":   "internal error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// ErrorHandler renders errors that escape handlers (unknown routes, body
// limits, recovered panics) in the same shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"message": fe.Message,
			"error":   fe.Error(),
		})
	}
	return respondError(c, err)
}
