package router

import (
	"context"
	"errors"

	"github.com/ManuelReschke/Lebensenergie/app/controllers"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/cache"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/database"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/ratelimit"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"

	"github.com/gofiber/fiber/v2"
)

// Router registers a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App) {
	repos := repository.GetGlobalRepositories()
	controllers.InitializeControllers(repos, cache.GetClient(), healthChecks())

	// Webhook and API limiters share one Redis storage.
	storage := ratelimit.NewRedisStorage()

	setup(app,
		NewHttpRouter(),
		NewWebhookRouter(webhook.LoadConfig(), storage),
		NewApiRouter(repos.User, storage),
		NewAdminRouter(env.GetEnv("ADMIN_USER", "admin"), env.GetEnv("ADMIN_PASSWORD", "")),
	)
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

func healthChecks() map[string]controllers.Pinger {
	return map[string]controllers.Pinger{
		"database": func(ctx context.Context) error {
			db := database.GetDB()
			if db == nil {
				return errors.New("not connected")
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"cache": func(ctx context.Context) error {
			return cache.GetClient().Ping(ctx).Err()
		},
	}
}
