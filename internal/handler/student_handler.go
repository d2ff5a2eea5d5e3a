package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// StudentHandler serves the student workspace routes.
type StudentHandler struct {
	dashboards service.DashboardService
	logger     zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(dashboards service.DashboardService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		dashboards: dashboards,
		logger:     logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires the student routes. RBAC middleware guards the group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
}

func (h *StudentHandler) dashboard(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	summary, err := h.dashboards.Student(requestContext(c), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build student dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", summary)
}
