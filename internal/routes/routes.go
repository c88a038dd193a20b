// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"cardfields/internal/handlers"
	"cardfields/internal/middleware"
	"cardfields/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the handlers and middleware the routes are bound to.
type Dependencies struct {
	Sessions *handlers.SessionHandler
	Health   *handlers.HealthHandler
	Auth     *middleware.AuthMiddleware
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all application routes.
// Merchant endpoints require a merchant token; frame and submit endpoints
// are addressed by the session id alone.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Health != nil {
		app.Get("/health", deps.Health.Check)
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Merchant routes
	merchant := api.Group("/sessions", deps.Auth.Handler)
	merchant.Post("/", middleware.RequirePermission(models.PermissionSessionWrite), deps.Sessions.Create)
	merchant.Get("/:id", middleware.RequirePermission(models.PermissionSessionRead), deps.Sessions.Get)
	merchant.Delete("/:id", middleware.RequirePermission(models.PermissionSessionWrite), deps.Sessions.Delete)
	merchant.Get("/:id/submissions", middleware.RequirePermission(models.PermissionSessionRead), deps.Sessions.ListSubmissions)

	// Frame host routes
	frames := api.Group("/frames/:id")
	frames.Get("/state", deps.Sessions.State)
	frames.Put("/:frame", deps.Sessions.UpdateFrame)
	frames.Delete("/:frame", deps.Sessions.RemoveFrame)
	frames.Post("/submit", deps.Sessions.Submit)
}
