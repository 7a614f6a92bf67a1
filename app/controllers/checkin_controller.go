package controllers

import (
	"errors"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/badges"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/checkin"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// CheckInController serves the daily check-in endpoints of the API.
type CheckInController struct {
	service *checkin.Service
}

// NewCheckInController creates a check-in controller.
func NewCheckInController(service *checkin.Service) *CheckInController {
	return &CheckInController{service: service}
}

// HandleSubmit handles POST /checkin
func (cc *CheckInController) HandleSubmit(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var in checkin.Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_body",
			"message": "Request body must be JSON",
		})
	}

	result, err := cc.service.Submit(c.UserContext(), userID, in)
	if err != nil {
		var dup *checkin.DuplicateCheckInError
		var invalid *checkin.ValidationError
		switch {
		case errors.As(err, &dup):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "already_checked_in",
				"message": checkin.AlreadyCheckedInMessage,
				"checkIn": dup.Existing,
			})
		case errors.As(err, &invalid):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "validation_failed",
				"message": invalid.Reason,
			})
		default:
			log.Errorf("[CheckIn] Submit failed for user %d: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "Check-in could not be saved",
			})
		}
	}

	newBadges := result.NewBadges
	if newBadges == nil {
		newBadges = []badges.Badge{}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"checkIn":   result.CheckIn,
		"newBadges": newBadges,
		"streak":    result.Streak,
		"journey":   result.Journey,
	})
}

// HandleToday handles GET /checkin/today
func (cc *CheckInController) HandleToday(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	today, err := cc.service.Today(c.UserContext(), userID)
	if err != nil {
		log.Errorf("[CheckIn] Today failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load today's check-in",
		})
	}
	return c.JSON(today)
}

// HandleHistory handles GET /checkin/history?days=N
func (cc *CheckInController) HandleHistory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	days := checkin.ClampDays(c.QueryInt("days", checkin.DefaultHistoryDays))

	history, err := cc.service.History(c.UserContext(), userID, days)
	if err != nil {
		log.Errorf("[CheckIn] History failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Could not load check-in history",
		})
	}
	return c.JSON(history)
}
