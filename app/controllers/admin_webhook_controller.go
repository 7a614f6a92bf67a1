package controllers

import (
	"errors"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// AdminWebhookController serves the event log to operators.
type AdminWebhookController struct {
	gateway *webhook.Gateway
	counter *counter.WebhookCounter
}

const maxStatsDays = 31

// NewAdminWebhookController creates an admin controller for the event log.
func NewAdminWebhookController(gateway *webhook.Gateway, counts *counter.WebhookCounter) *AdminWebhookController {
	return &AdminWebhookController{gateway: gateway, counter: counts}
}

type webhookEventView struct {
	models.WebhookEvent
	Status string `json:"status"`
}

func newWebhookEventView(e models.WebhookEvent) webhookEventView {
	return webhookEventView{WebhookEvent: e, Status: e.Status()}
}

// HandleList handles GET /admin/webhook-events
func (ac *AdminWebhookController) HandleList(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", models.WebhookStatusPending, models.WebhookStatusProcessed, models.WebhookStatusErrored:
	default:
		return errorJSON(c, fiber.StatusBadRequest, "status must be one of pending, processed, errored")
	}
	source := c.Query("source")
	if source != "" && !webhook.IsKnownSource(source) {
		return errorJSON(c, fiber.StatusBadRequest, "Unknown webhook source")
	}

	page, limit, offset := pagination(c)
	events, total, err := ac.gateway.List(c.UserContext(), repository.WebhookEventFilter{
		Source: source,
		Status: status,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		log.Errorf("[Admin] Could not list webhook events: %v", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Could not list webhook events")
	}

	views := make([]webhookEventView, 0, len(events))
	for _, e := range events {
		views = append(views, newWebhookEventView(e))
	}
	return c.JSON(fiber.Map{
		"events": views,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// HandleReplay handles POST /admin/webhook-events/:id/replay
func (ac *AdminWebhookController) HandleReplay(c *fiber.Ctx) error {
	id := c.Params("id")
	record, err := ac.gateway.Replay(c.UserContext(), id)
	if err != nil {
		var schemaErr *webhook.SchemaError
		var handlerErr *webhook.HandlerError
		switch {
		case errors.Is(err, webhook.ErrEventNotFound):
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, webhook.ErrAlreadyProcessed):
			return errorJSON(c, fiber.StatusConflict, err.Error())
		case errors.As(err, &schemaErr), errors.Is(err, webhook.ErrUserNotFound):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		case errors.As(err, &handlerErr):
			return errorJSON(c, fiber.StatusInternalServerError, handlerErr.Err.Error())
		default:
			log.Errorf("[Admin] Replay of %s failed: %v", id, err)
			return errorJSON(c, fiber.StatusInternalServerError, "Replay failed")
		}
	}

	log.Infof("[Admin] Replayed webhook event %s", id)
	return c.JSON(fiber.Map{
		"success": true,
		"event":   newWebhookEventView(*record),
	})
}

// HandleStats handles GET /admin/webhook-stats?days=N
func (ac *AdminWebhookController) HandleStats(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 {
		days = 1
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	series, err := ac.counter.LastDays(c.UserContext(), time.Now(), days)
	if err != nil {
		log.Errorf("[Admin] Could not read webhook counters: %v", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Could not read webhook counters")
	}
	return c.JSON(fiber.Map{"days": series})
}
