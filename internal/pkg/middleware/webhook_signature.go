package middleware

import (
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/usercontext"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// WebhookSignature rejects deliveries whose X-Webhook-Signature does not
// match the HMAC-SHA256 of the raw body. Nothing is parsed or stored for
// rejected requests. The verified body is stored in Locals.
func WebhookSignature(secret string) fiber.Handler {
	if secret == "" {
		log.Warn("[Webhook] WEBHOOK_SECRET is empty, all deliveries will be rejected")
	}
	return func(c *fiber.Ctx) error {
		rawBody := append([]byte(nil), c.BodyRaw()...)
		if !webhook.Verify(c.Get(webhook.SignatureHeader), rawBody, secret) {
			log.Warnf("[Webhook] Rejected delivery to %s from %s: invalid signature", c.Path(), c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
		}
		c.Locals(usercontext.KeyRawBody, rawBody)
		return c.Next()
	}
}
