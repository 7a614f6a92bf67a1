package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/usercontext"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// WebhookController receives signed deliveries of the external sources.
type WebhookController struct {
	gateway *webhook.Gateway
	counter *counter.WebhookCounter
}

// NewWebhookController creates a webhook controller on top of gateway.
// counts may be nil.
func NewWebhookController(gateway *webhook.Gateway, counts *counter.WebhookCounter) *WebhookController {
	return &WebhookController{gateway: gateway, counter: counts}
}

func (wc *WebhookController) count(c *fiber.Ctx, source string, outcome counter.Outcome) {
	if err := wc.counter.Add(c.UserContext(), source, outcome, time.Now()); err != nil {
		log.Warnf("[Webhook] Could not count %s delivery: %v", source, err)
	}
}

// HandleWebhook handles POST /webhooks/:source. The signature has already
// been verified by middleware.WebhookSignature.
//
// 400 responses are permanent, 500 responses may be retried by the sender.
func (wc *WebhookController) HandleWebhook(c *fiber.Ctx) error {
	source := c.Params("source")
	if !webhook.IsKnownSource(source) {
		return errorJSON(c, fiber.StatusNotFound, "Unknown webhook source")
	}

	rawBody, ok := c.Locals(usercontext.KeyRawBody).([]byte)
	if !ok {
		rawBody = append([]byte(nil), c.BodyRaw()...)
	}

	record, err := wc.gateway.Process(c.UserContext(), source, rawBody)
	if err != nil {
		var schemaErr *webhook.SchemaError
		var handlerErr *webhook.HandlerError
		switch {
		case errors.As(err, &schemaErr):
			log.Warnf("[Webhook] Rejected %s delivery from %s: %v", source, GetClientIP(c), err)
			wc.count(c, source, counter.OutcomeRejected)
			return errorJSON(c, fiber.StatusBadRequest, schemaErr.Error())
		case errors.Is(err, webhook.ErrUserNotFound):
			wc.count(c, source, counter.OutcomeUserNotFound)
			return errorJSON(c, fiber.StatusBadRequest, webhook.ErrUserNotFound.Error())
		case errors.As(err, &handlerErr):
			// the detail is stored on the event row
			wc.count(c, source, counter.OutcomeFailed)
			return errorJSON(c, fiber.StatusInternalServerError, processingFailedMessage(handlerErr.Err))
		default:
			log.Errorf("[Webhook] Could not process %s delivery: %v", source, err)
			wc.count(c, source, counter.OutcomeFailed)
			return errorJSON(c, fiber.StatusInternalServerError, processingFailedMessage(err))
		}
	}

	wc.count(c, source, counter.OutcomeProcessed)
	return c.JSON(fiber.Map{
		"success": true,
		"eventId": record.ID,
	})
}

func processingFailedMessage(err error) string {
	msg := "Failed to process webhook"
	if env.IsDev() {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return msg
}
