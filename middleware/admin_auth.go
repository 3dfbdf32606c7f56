package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware guards the admin surface with a shared key carried in
// the X-Admin-Key header.
func AdminAuthMiddleware(adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminKey == "" {
			log.Printf("❌ [ADMIN_AUTH] ADMIN_KEY not configured, rejecting %s", c.Path())
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "admin access is not configured",
			})
		}

		provided := c.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
			log.Printf("❌ [ADMIN_AUTH] Invalid admin key on %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin key",
			})
		}
		return c.Next()
	}
}
