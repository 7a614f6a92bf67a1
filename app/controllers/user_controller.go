package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/usercontext"
)

// UserController serves the member account and the access token management.
type UserController struct {
	users repository.UserRepository
}

// NewUserController creates a user controller.
func NewUserController(users repository.UserRepository) *UserController {
	return &UserController{users: users}
}

// HandleAccount returns account information for the authenticated member.
func (uc *UserController) HandleAccount(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	ctx := c.UserContext()

	account, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}
	settings, err := uc.users.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user settings"})
	}

	return c.JSON(fiber.Map{
		"id":                   account.ID,
		"name":                 account.Name,
		"email":                account.Email,
		"status":               account.Status,
		"timezone":             settings.Timezone,
		"api_key_prefix":       settings.APIKeyPrefix,
		"api_key_last_used_at": formatTimePtr(settings.APIKeyLastUsedAt),
		"created_at":           account.CreatedAt.UTC().Format(time.RFC3339),
	})
}

type timezoneInput struct {
	Timezone string `json:"timezone"`
}

// HandleUpdateTimezone handles PUT /account/timezone. Check-in days are
// counted in this timezone from the next submission on.
func (uc *UserController) HandleUpdateTimezone(c *fiber.Ctx) error {
	var in timezoneInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Request body must be JSON"})
	}
	name := strings.TrimSpace(in.Timezone)
	if name != "" {
		if _, err := time.LoadLocation(name); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_timezone", "message": "Unknown timezone " + name})
		}
	}

	userID := usercontext.GetUserID(c)
	settings, err := uc.users.GetOrCreateSettings(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user settings"})
	}
	settings.Timezone = name
	if err := uc.users.SaveSettings(c.UserContext(), settings); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save user settings"})
	}
	return c.JSON(fiber.Map{"timezone": settings.Timezone})
}

func (uc *UserController) settingsForParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
	}
	if _, err := uc.users.GetByID(c.UserContext(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return 0, err
	}
	return uint(id), nil
}

func respondFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errorJSON(c, fe.Code, fe.Message)
	}
	log.Errorf("[Admin] %v", err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

// HandleIssueAPIKey handles POST /admin/users/:id/api-key. The raw key is
// only returned once; a previous key stops working.
func (uc *UserController) HandleIssueAPIKey(c *fiber.Ctx) error {
	userID, err := uc.settingsForParam(c)
	if err != nil {
		return respondFiberError(c, err)
	}
	settings, err := uc.users.GetOrCreateSettings(c.UserContext(), userID)
	if err != nil {
		return respondFiberError(c, err)
	}
	raw, err := settings.IssueAPIKey()
	if err != nil {
		return respondFiberError(c, err)
	}
	if err := uc.users.SaveSettings(c.UserContext(), settings); err != nil {
		return respondFiberError(c, err)
	}

	log.Infof("[Admin] Issued access token %s for user %d", settings.APIKeyPrefix, userID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"api_key":    raw,
		"prefix":     settings.APIKeyPrefix,
		"created_at": formatTimePtr(settings.APIKeyCreatedAt),
	})
}

// HandleRevokeAPIKey handles DELETE /admin/users/:id/api-key
func (uc *UserController) HandleRevokeAPIKey(c *fiber.Ctx) error {
	userID, err := uc.settingsForParam(c)
	if err != nil {
		return respondFiberError(c, err)
	}
	settings, err := uc.users.GetOrCreateSettings(c.UserContext(), userID)
	if err != nil {
		return respondFiberError(c, err)
	}
	settings.RevokeAPIKey()
	if err := uc.users.SaveSettings(c.UserContext(), settings); err != nil {
		return respondFiberError(c, err)
	}

	log.Infof("[Admin] Revoked access token of user %d", userID)
	return c.JSON(fiber.Map{"success": true})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
