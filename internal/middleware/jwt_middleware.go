package middleware

import (
	"errors"
	"strings"

	"feira/internal/logging"
	"feira/internal/models"
	"feira/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	localsVendor = "vendor"
	localsClaims = "claims"
)

// AuthRequired is a Fiber middleware that resolves the calling vendor from
// a bearer token. A missing or non-bearer header is rejected with 403; a
// token that does not resolve to a vendor with 401.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Not authenticated",
				"error":   "authorization header must be 'Bearer <token>'",
			})
		}

		ctx := c.UserContext()
		vendor, claims, err := authService.ResolveVendor(ctx, strings.TrimSpace(parts[1]))
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				logging.FromContext(ctx).Error("token resolution failed", "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Internal server error",
					"error":   "internal error",
				})
			}
			logging.FromContext(ctx).Debug("token rejected", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(localsVendor, vendor)
		c.Locals(localsClaims, claims)
		c.SetUserContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("vendor_id", vendor.ID)))
		return c.Next()
	}
}

// CurrentVendor returns the vendor resolved by AuthRequired.
func CurrentVendor(c *fiber.Ctx) *models.Vendor {
	v, _ := c.Locals(localsVendor).(*models.Vendor)
	return v
}

// CurrentClaims returns the token claims resolved by AuthRequired.
func CurrentClaims(c *fiber.Ctx) *services.TokenClaims {
	claims, _ := c.Locals(localsClaims).(*services.TokenClaims)
	return claims
}
