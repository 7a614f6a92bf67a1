package router

import (
	"github.com/ManuelReschke/Lebensenergie/app/controllers"

	"github.com/gofiber/fiber/v2"
)

// HttpRouter registers the unauthenticated operational routes.
type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "lebensenergie",
			"docs":    "/docs/api/",
		})
	})
	app.Get("/health", controllers.HandleHealth)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
