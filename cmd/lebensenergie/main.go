package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/cache"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/database"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/router"
)

// webhook payloads and check-ins are small JSON documents
const bodyLimit = 1 << 20

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/lebensenergie to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Lebensenergie",
		BodyLimit: bodyLimit,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if password := env.GetEnv("METRICS_PASSWORD", env.GetEnv("ADMIN_PASSWORD", "")); password != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				env.GetEnv("ADMIN_USER", "admin"): password,
			},
		}), monitor.New())
	} else {
		log.Println("METRICS_PASSWORD and ADMIN_PASSWORD are empty, /metrics is disabled")
	}

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
