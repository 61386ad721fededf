package report

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-sync/core/logger"
)

// Handler handles HTTP requests for run history and verification.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/report")
	group.Get("/runs", h.HandleListRuns)
	group.Get("/runs/latest", h.HandleLatestRun)
	group.Get("/runs/:id", h.HandleGetRun)
	group.Get("/verify", h.HandleVerify)
}

// HandleListRuns returns the archived run ids.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	ids, err := h.service.Runs(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": ids})
}

// HandleLatestRun returns the newest run summary.
func (h *Handler) HandleLatestRun(c *fiber.Ctx) error {
	summary, err := h.service.LatestRun(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to fetch latest run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no runs archived"})
	}
	return c.JSON(summary)
}

// HandleGetRun returns one run summary by id.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	summary, err := h.service.Run(c.Context(), c.Params("id"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to fetch run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown run id"})
	}
	return c.JSON(summary)
}

// HandleVerify runs the schema and count checks.
func (h *Handler) HandleVerify(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Running verification checks")

	report, err := h.service.Verify(c.Context())
	if err != nil {
		l.Error("Verification failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
