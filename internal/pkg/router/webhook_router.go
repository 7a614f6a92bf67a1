package router

import (
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/controllers"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/middleware"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/ratelimit"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"

	"github.com/gofiber/fiber/v2"
)

// WebhookRouter mounts the signed webhook receivers under /webhooks.
type WebhookRouter struct {
	cfg     webhook.Config
	storage fiber.Storage
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	hooks := app.Group("/webhooks",
		ratelimit.New(h.cfg.RateLimit, time.Minute, h.storage),
		middleware.WebhookSignature(h.cfg.Secret),
	)
	hooks.Post("/:source", controllers.HandleWebhook)
}

// NewWebhookRouter creates the webhook router. storage may be nil.
func NewWebhookRouter(cfg webhook.Config, storage fiber.Storage) *WebhookRouter {
	return &WebhookRouter{cfg: cfg, storage: storage}
}
