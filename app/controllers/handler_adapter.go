package controllers

import (
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/cache"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/checkin"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/journey"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Global controller instances
var (
	webhookController      *WebhookController
	adminWebhookController *AdminWebhookController
	checkInController      *CheckInController
	journeyController      *JourneyController
	healthController       *HealthController
	userController         *UserController
)

// InitializeControllers builds the services of the application and the
// global controller instances used by the router adapters. rdb may be nil,
// which disables the streak cache and the webhook counters.
func InitializeControllers(repos *repository.Repositories, rdb *redis.Client, checks map[string]Pinger) {
	journeyCfg := journey.LoadConfig()
	gateway := webhook.NewGateway(repos.WebhookEvent, webhook.NewProcessor(repos, journeyCfg))
	webhookCounter := counter.NewWebhookCounter(rdb)

	webhookController = NewWebhookController(gateway, webhookCounter)
	adminWebhookController = NewAdminWebhookController(gateway, webhookCounter)
	checkInController = NewCheckInController(checkin.NewService(repos, journeyCfg, cache.NewStreakCache(rdb), checkin.LoadConfig()))
	journeyController = NewJourneyController(journey.NewService(repos.Journey, journeyCfg), repos)
	healthController = NewHealthController(checks)
	userController = NewUserController(repos.User)
}

// initializeFromGlobals falls back to the global repository factory and cache.
func initializeFromGlobals() {
	InitializeControllers(repository.GetGlobalRepositories(), cache.GetClient(), nil)
}

// Adapter functions used by the router

// HandleWebhook - Adapter for POST /webhooks/:source
func HandleWebhook(c *fiber.Ctx) error {
	if webhookController == nil {
		initializeFromGlobals()
	}
	return webhookController.HandleWebhook(c)
}

// HandleCheckInSubmit - Adapter for POST /checkin
func HandleCheckInSubmit(c *fiber.Ctx) error {
	if checkInController == nil {
		initializeFromGlobals()
	}
	return checkInController.HandleSubmit(c)
}

// HandleCheckInToday - Adapter for GET /checkin/today
func HandleCheckInToday(c *fiber.Ctx) error {
	if checkInController == nil {
		initializeFromGlobals()
	}
	return checkInController.HandleToday(c)
}

// HandleCheckInHistory - Adapter for GET /checkin/history
func HandleCheckInHistory(c *fiber.Ctx) error {
	if checkInController == nil {
		initializeFromGlobals()
	}
	return checkInController.HandleHistory(c)
}

// HandleJourney - Adapter for GET /journey
func HandleJourney(c *fiber.Ctx) error {
	if journeyController == nil {
		initializeFromGlobals()
	}
	return journeyController.HandleJourney(c)
}

// HandleNotifications - Adapter for GET /notifications
func HandleNotifications(c *fiber.Ctx) error {
	if journeyController == nil {
		initializeFromGlobals()
	}
	return journeyController.HandleNotifications(c)
}

// HandleAdminWebhookEvents - Adapter for the event log listing
func HandleAdminWebhookEvents(c *fiber.Ctx) error {
	if adminWebhookController == nil {
		initializeFromGlobals()
	}
	return adminWebhookController.HandleList(c)
}

// HandleAdminWebhookReplay - Adapter for event replay
func HandleAdminWebhookReplay(c *fiber.Ctx) error {
	if adminWebhookController == nil {
		initializeFromGlobals()
	}
	return adminWebhookController.HandleReplay(c)
}

// HandleAdminWebhookStats - Adapter for the delivery counters
func HandleAdminWebhookStats(c *fiber.Ctx) error {
	if adminWebhookController == nil {
		initializeFromGlobals()
	}
	return adminWebhookController.HandleStats(c)
}

// HandleHealth - Adapter for GET /health
func HandleHealth(c *fiber.Ctx) error {
	if healthController == nil {
		initializeFromGlobals()
	}
	return healthController.HandleHealth(c)
}

// HandleAccount - Adapter for GET /account
func HandleAccount(c *fiber.Ctx) error {
	if userController == nil {
		initializeFromGlobals()
	}
	return userController.HandleAccount(c)
}

// HandleAccountTimezone - Adapter for PUT /account/timezone
func HandleAccountTimezone(c *fiber.Ctx) error {
	if userController == nil {
		initializeFromGlobals()
	}
	return userController.HandleUpdateTimezone(c)
}

// HandleAdminIssueAPIKey - Adapter for POST /admin/users/:id/api-key
func HandleAdminIssueAPIKey(c *fiber.Ctx) error {
	if userController == nil {
		initializeFromGlobals()
	}
	return userController.HandleIssueAPIKey(c)
}

// HandleAdminRevokeAPIKey - Adapter for DELETE /admin/users/:id/api-key
func HandleAdminRevokeAPIKey(c *fiber.Ctx) error {
	if userController == nil {
		initializeFromGlobals()
	}
	return userController.HandleRevokeAPIKey(c)
}
