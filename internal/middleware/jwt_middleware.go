package middleware

import (
	"log"
	"strings"

	"storefront/internal/services"
	"storefront/internal/session"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that checks for a valid JWT token
// and stashes the token's identity on the request. The shared session
// store is written only by real auth events (login, logout), never per
// request, so concurrent requests from different tokens cannot redirect
// each other.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := authService.IdentityFromToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals("user_id", identity.ID)
		c.Locals("email", identity.Email)

		return c.Next()
	}
}

// DeviceSession guards the device-local surfaces (cart, checkout). The
// cart and the session store belong to one device; a request carrying a
// token for a different user than the device session holds is refused
// rather than silently acting on that device's cart. Tokenless requests
// are the device's own UI and pass through.
func DeviceSession(authService *services.AuthService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := authService.IdentityFromToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		if current, ok := sessions.Identity(); ok && current.ID != identity.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "The cart belongs to a different signed-in user",
			})
		}

		c.Locals("user_id", identity.ID)
		c.Locals("email", identity.Email)

		return c.Next()
	}
}
