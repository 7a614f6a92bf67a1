package router

import (
	"github.com/ManuelReschke/Lebensenergie/app/controllers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

// AdminRouter mounts the event log administration behind basic auth.
type AdminRouter struct {
	user     string
	password string
}

func (h AdminRouter) InstallRouter(app *fiber.App) {
	if h.password == "" {
		log.Warn("[Router] ADMIN_PASSWORD is empty, admin routes are disabled")
		app.Use("/admin", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Admin access is disabled"})
		})
		return
	}

	adminGroup := app.Group("/admin", basicauth.New(basicauth.Config{
		Users: map[string]string{h.user: h.password},
	}))
	adminGroup.Get("/webhook-events", controllers.HandleAdminWebhookEvents)
	adminGroup.Post("/webhook-events/:id/replay", controllers.HandleAdminWebhookReplay)
	adminGroup.Get("/webhook-stats", controllers.HandleAdminWebhookStats)
	adminGroup.Post("/users/:id/api-key", controllers.HandleAdminIssueAPIKey)
	adminGroup.Delete("/users/:id/api-key", controllers.HandleAdminRevokeAPIKey)
}

func NewAdminRouter(user, password string) *AdminRouter {
	return &AdminRouter{user: user, password: password}
}
