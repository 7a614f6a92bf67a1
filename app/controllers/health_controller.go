package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by the database and cache health checks.
type Pinger func(ctx context.Context) error

// HealthController reports liveness of the service and its backends.
type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController creates a health controller for the named checks.
func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

// HandleHealth handles GET /health
func (hc *HealthController) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	results := make(map[string]string, len(hc.checks))
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			continue
		}
		results[name] = "ok"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": results,
	})
}
