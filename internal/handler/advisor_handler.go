package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/repository"
	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// AdvisorHandler serves the advisor workspace routes.
type AdvisorHandler struct {
	dashboards service.DashboardService
	projects   service.ProjectService
	logger     zerolog.Logger
}

// NewAdvisorHandler constructs the handler.
func NewAdvisorHandler(dashboards service.DashboardService, projects service.ProjectService, logger zerolog.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		dashboards: dashboards,
		projects:   projects,
		logger:     logger.With().Str("component", "advisor_handler").Logger(),
	}
}

// Register wires the advisor routes. RBAC middleware guards the group.
func (h *AdvisorHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
	router.Get("/projects", h.listProjects)
}

func (h *AdvisorHandler) dashboard(c *fiber.Ctx) error {
	advisorID := userIDFromContext(c)
	if advisorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	summary, err := h.dashboards.Advisor(requestContext(c), advisorID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build advisor dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", summary)
}

func (h *AdvisorHandler) listProjects(c *fiber.Ctx) error {
	advisorID := userIDFromContext(c)
	if advisorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.projects.ListByAdvisor(requestContext(c), advisorID, repository.ProjectFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list advised projects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list projects")
	}

	return utils.SendSuccess(c, "projects retrieved", result)
}
