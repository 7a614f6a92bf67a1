package middleware

import (
	icuser "github.com/ManuelReschke/Lebensenergie/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// RequireAPIAuth guards API routes mounted behind APIKeyAuthMiddleware and
// returns JSON 401 when no user was resolved.
func RequireAPIAuth(c *fiber.Ctx) error {
	v := c.Locals(icuser.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn || icuser.GetUserID(c) == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
