package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/subpilot/subpilot/internal/pkg/cache"
	"github.com/subpilot/subpilot/internal/pkg/constants"
	"github.com/subpilot/subpilot/internal/pkg/database"
	"github.com/subpilot/subpilot/internal/pkg/env"
	"github.com/subpilot/subpilot/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "SubPilot",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics, behind basic auth outside local development
	metricsUser := env.GetEnv("METRICS_USER", "")
	metricsPass := env.GetEnv("METRICS_PASSWORD", "")
	if metricsUser != "" && metricsPass != "" {
		app.Get(constants.MetricsRoute, basicauth.New(basicauth.Config{
			Users: map[string]string{metricsUser: metricsPass},
		}), monitor.New())
	} else {
		app.Get(constants.MetricsRoute, monitor.New())
	}

	// ROUTER
	router.InstallRouter(app)

	return app
}
