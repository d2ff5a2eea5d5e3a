package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// EvaluatorHandler serves the evaluator workspace routes.
type EvaluatorHandler struct {
	dashboards  service.DashboardService
	evaluations service.EvaluationService
	logger      zerolog.Logger
}

// NewEvaluatorHandler constructs the handler.
func NewEvaluatorHandler(dashboards service.DashboardService, evaluations service.EvaluationService, logger zerolog.Logger) *EvaluatorHandler {
	return &EvaluatorHandler{
		dashboards:  dashboards,
		evaluations: evaluations,
		logger:      logger.With().Str("component", "evaluator_handler").Logger(),
	}
}

// Register wires the evaluator routes. RBAC middleware guards the group.
func (h *EvaluatorHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
	router.Get("/evaluations/pending", h.pending)
	router.Get("/evaluations/completed", h.completed)
	router.Get("/evaluations/completed/:id/download", h.download)
	router.Post("/evaluations/:id", h.submit)
}

func (h *EvaluatorHandler) dashboard(c *fiber.Ctx) error {
	evaluatorID := userIDFromContext(c)
	if evaluatorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	summary, err := h.dashboards.Evaluator(requestContext(c), evaluatorID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build evaluator dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", summary)
}

func (h *EvaluatorHandler) pending(c *fiber.Ctx) error {
	evaluatorID := userIDFromContext(c)
	if evaluatorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	items, pagination, err := h.evaluations.Pending(requestContext(c), evaluatorID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pending evaluations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pending evaluations")
	}

	return utils.SendSuccess(c, "pending evaluations retrieved", fiber.Map{
		"items":      items,
		"pagination": pagination,
	})
}

func (h *EvaluatorHandler) completed(c *fiber.Ctx) error {
	evaluatorID := userIDFromContext(c)
	if evaluatorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.evaluations.Completed(requestContext(c), evaluatorID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list completed evaluations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list completed evaluations")
	}

	return utils.SendSuccess(c, "completed evaluations retrieved", result)
}

func (h *EvaluatorHandler) submit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid evaluation id")
	}

	var req dto.EvaluationSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.evaluations.Submit(requestContext(c), id, viewerFromContext(c), req)
	if err != nil {
		if errors.Is(err, service.ErrEvaluationCompleted) {
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		}
		requestLogger(h.logger, c).Warn().Err(err).Uint("evaluation_id", id).Msg("evaluation submission rejected")
		return sendServiceError(c, err,
			"you do not have permission to submit this evaluation",
			"evaluation not found")
	}

	return utils.SendSuccess(c, "evaluation submitted", evaluation)
}

func (h *EvaluatorHandler) download(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid evaluation id")
	}

	report, filename, err := h.evaluations.Report(requestContext(c), id, viewerFromContext(c))
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to download this report",
			"evaluation not found")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(report)
}
