package controllers

import (
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/badges"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/entitlements"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/journey"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const notificationsLimit = 50

// JourneyController exposes the journey of the authenticated user.
type JourneyController struct {
	journeys      *journey.Service
	badges        repository.BadgeRepository
	notifications repository.NotificationRepository
}

// NewJourneyController creates a journey controller.
func NewJourneyController(journeys *journey.Service, repos *repository.Repositories) *JourneyController {
	return &JourneyController{
		journeys:      journeys,
		badges:        repos.Badge,
		notifications: repos.Notification,
	}
}

type earnedBadge struct {
	badges.Badge
	EarnedAt time.Time `json:"earnedAt"`
}

// HandleJourney handles GET /journey
func (jc *JourneyController) HandleJourney(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	ctx := c.UserContext()

	j, err := jc.journeys.Get(ctx, userID)
	if err != nil {
		log.Errorf("[Journey] Could not load journey of user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load journey",
		})
	}

	stored, err := jc.badges.ListByUser(ctx, userID)
	if err != nil {
		log.Errorf("[Journey] Could not load badges of user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load badges",
		})
	}
	earned := make([]earnedBadge, 0, len(stored))
	for _, ub := range stored {
		b, ok := badges.Lookup(ub.BadgeSlug)
		if !ok {
			// retired catalog entry
			b = badges.Badge{Slug: ub.BadgeSlug, Name: ub.BadgeSlug}
		}
		earned = append(earned, earnedBadge{Badge: b, EarnedAt: ub.EarnedAt})
	}

	return c.JSON(fiber.Map{
		"journey":      j,
		"capabilities": entitlements.For(j.State),
		"badges":       earned,
	})
}

// HandleNotifications handles GET /notifications
func (jc *JourneyController) HandleNotifications(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	list, err := jc.notifications.ListByUser(c.UserContext(), userID, notificationsLimit)
	if err != nil {
		log.Errorf("[Journey] Could not load notifications of user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load notifications",
		})
	}
	return c.JSON(fiber.Map{"notifications": list})
}
