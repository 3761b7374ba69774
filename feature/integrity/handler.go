package integrity

import (
	"errors"

	"calendar-agent/core/logger"
	"calendar-agent/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/feed", h.HandleFeedCheck)
	group.Get("/calendars", h.HandleCalendarCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs every integrity check (Schema, Feed, Calendars). Unconfigured sources are reported as skipped.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")
	return c.JSON(h.service.RunAll(c.Context()))
}

// HandleSchemaCheck compares the database schema with the models.
// @Summary Check Schema
// @Description Compares the calendar and ledger tables against their GORM models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport
// @Failure 404 {object} map[string]string "Not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema()
	if err != nil {
		return h.fail(c, "Schema check failed", err)
	}
	return c.JSON(report)
}

// HandleFeedCheck checks and optionally fixes the published feed.
// @Summary Check Feed
// @Description Checks that the feed bucket exists and the feed object is a calendar. Optionally creates the missing bucket.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the missing bucket"
// @Success 200 {object} checks.FeedReport
// @Failure 404 {object} map[string]string "Not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/feed [get]
func (h *Handler) HandleFeedCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckFeed(c.Context())
	if err != nil {
		return h.fail(c, "Feed check failed", err)
	}

	if !report.BucketExists && fix {
		l.Info("Attempting to fix feed bucket")
		if err := h.service.FixFeed(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "fixed", "bucket": report.Bucket})
	}
	return c.JSON(report)
}

// HandleCalendarCheck checks calendar reachability and day holds.
// @Summary Check Calendars
// @Description Lists every configured calendar and reports days on the blocks calendar with more than one agent hold.
// @Tags integrity
// @Produce json
// @Success 200 {object} CalendarReport
// @Failure 404 {object} map[string]string "Not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/calendars [get]
func (h *Handler) HandleCalendarCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckCalendars(c.Context())
	if err != nil {
		return h.fail(c, "Calendar check failed", err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	if errors.Is(err, ErrSkipped) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
