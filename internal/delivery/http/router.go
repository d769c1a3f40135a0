package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sitetraffic/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, simSvc *service.SimulationService, repo service.DataRepository) {
	handler := NewHandler(simSvc, repo)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Project endpoints
		api.Get("/projects", handler.ListProjects)
		api.Post("/projects", handler.CreateProject)
		api.Get("/projects/:projectID", handler.GetProject)

		// Simulation endpoints
		api.Get("/simulation/:projectID/traffic", handler.GetHourTraffic)
		api.Get("/simulation/:projectID/daily", handler.GetDailyTraffic)
		api.Post("/simulation/:projectID/invalidate", handler.InvalidateWeek)
	}
}
