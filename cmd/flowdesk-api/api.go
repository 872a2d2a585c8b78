// Package main provides the Flowdesk API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	components *cmd.Components
	validate   *validator.Validate
}

func NewAPI(logger *slog.Logger, components *cmd.Components) *API {
	return &API{
		logger:     logger,
		components: components,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(
		a.components.Workflows,
		a.components.Teams,
		a.components.Comments,
		a.components.Templates,
		a.components.Session,
		a.components.Activity,
		a.validate,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			_, ok := a.components.Workflows.HealthCheck(c.Context())

			return ok
		},
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowdesk API")
	})

	handlers.Routes(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.logger.Info("Listening", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}
