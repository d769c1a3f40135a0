package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sitetraffic/backend/internal/domain"
	"github.com/sitetraffic/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	simSvc *service.SimulationService
	repo   service.DataRepository
}

// NewHandler creates a new handler
func NewHandler(simSvc *service.SimulationService, repo service.DataRepository) *Handler {
	return &Handler{
		simSvc: simSvc,
		repo:   repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "sitetraffic-backend",
		"version": "1.0.0",
	})
}

// ListProjects returns all project records
func (h *Handler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.repo.ListProjects(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list projects")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    projects,
		"count":   len(projects),
	})
}

// CreateProject registers a new construction site project
func (h *Handler) CreateProject(c *fiber.Ctx) error {
	var project domain.Project
	if err := c.BodyParser(&project); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if project.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Project name is required")
	}

	project.ID = uuid.NewString()
	project.CreatedAt = time.Now().UTC()

	if err := h.repo.CreateProject(c.Context(), project); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create project")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}

// GetProject returns one project by id
func (h *Handler) GetProject(c *fiber.Ctx) error {
	project, err := h.repo.GetProject(c.Context(), c.Params("projectID"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Project not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}

// GetHourTraffic returns the simulated segment table for one date and hour
func (h *Handler) GetHourTraffic(c *fiber.Ctx) error {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
	}
	hour := c.QueryInt("hour", -1)
	if hour < 0 || hour > 23 {
		return fiber.NewError(fiber.StatusBadRequest, "Hour must be between 0 and 23")
	}

	result, err := h.simSvc.GetHour(c.Context(), c.Params("projectID"), date, hour)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to simulate traffic")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// GetDailyTraffic returns 24 hourly stat summaries for one date
func (h *Handler) GetDailyTraffic(c *fiber.Ctx) error {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
	}

	stats, err := h.simSvc.GetDaily(c.Context(), c.Params("projectID"), date)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to simulate traffic")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"date":    date.Format("2006-01-02"),
		"data":    stats,
	})
}

// InvalidateWeek drops the cached result tables for a project-week
func (h *Handler) InvalidateWeek(c *fiber.Ctx) error {
	year := c.QueryInt("year", 0)
	week := c.QueryInt("week", 0)
	if year == 0 || week < 1 || week > 53 {
		return fiber.NewError(fiber.StatusBadRequest, "year and week query parameters are required")
	}

	removed := h.simSvc.Invalidate(c.Params("projectID"), year, week)
	return c.JSON(fiber.Map{
		"success": true,
		"removed": removed,
	})
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
