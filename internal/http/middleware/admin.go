package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminSecretHeader carries the shared admin secret.
const AdminSecretHeader = "x-admin-secret"

// IsAdmin reports whether the request carries the configured admin secret.
// An empty secret disables admin access.
func IsAdmin(c *fiber.Ctx, secret string) bool {
	if secret == "" {
		return false
	}
	got := c.Get(AdminSecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}

// RequireAdmin rejects requests without the admin secret with 401.
func RequireAdmin(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c, secret) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized - Invalid admin secret",
			})
		}
		return c.Next()
	}
}
