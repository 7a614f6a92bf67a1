package router

import (
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/controllers"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/middleware"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// ApiRouter mounts the bearer-token endpoints of the member API.
type ApiRouter struct {
	users   repository.UserRepository
	storage fiber.Storage
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	limit := ratelimit.New(env.GetEnvInt("API_RATE_LIMIT", 60), time.Minute, h.storage)
	auth := middleware.APIKeyAuthMiddleware(h.users)

	checkin := app.Group("/checkin", limit, auth, middleware.RequireAPIAuth)
	checkin.Post("/", controllers.HandleCheckInSubmit)
	checkin.Get("/today", controllers.HandleCheckInToday)
	checkin.Get("/history", controllers.HandleCheckInHistory)

	app.Get("/journey", limit, auth, middleware.RequireAPIAuth, controllers.HandleJourney)
	app.Get("/notifications", limit, auth, middleware.RequireAPIAuth, controllers.HandleNotifications)

	account := app.Group("/account", limit, auth, middleware.RequireAPIAuth)
	account.Get("/", controllers.HandleAccount)
	account.Put("/timezone", controllers.HandleAccountTimezone)
}

// NewApiRouter creates the API router. storage may be nil.
func NewApiRouter(users repository.UserRepository, storage fiber.Storage) *ApiRouter {
	return &ApiRouter{users: users, storage: storage}
}
