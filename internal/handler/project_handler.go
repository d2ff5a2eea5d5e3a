package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/repository"
	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// ProjectHandler serves project detail pages, their tasks and their feedback
// thread.
type ProjectHandler struct {
	projects service.ProjectService
	tasks    service.TaskService
	feedback service.FeedbackService
	logger   zerolog.Logger
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(projects service.ProjectService, tasks service.TaskService, feedback service.FeedbackService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		tasks:    tasks,
		feedback: feedback,
		logger:   logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register wires the project routes.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Patch("/:id/status", h.updateStatus)
	router.Get("/:id/tasks", h.listTasks)
	router.Patch("/:id/tasks/:taskId/status", h.updateTaskStatus)
	router.Get("/:id/feedback", h.listFeedback)
	router.Post("/:id/feedback", h.createFeedback)
}

// RegisterFeedback wires the feedback item routes that are not nested under a
// project id.
func (h *ProjectHandler) RegisterFeedback(router fiber.Router) {
	router.Patch("/:id/status", h.updateFeedbackStatus)
	router.Post("/:id/responses", h.replyFeedback)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	project, err := h.projects.Get(requestContext(c), id)
	if err != nil {
		return sendServiceError(c, err, "", "project not found")
	}

	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	var req dto.ProjectStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, err := h.projects.UpdateStatus(requestContext(c), id, viewerFromContext(c), req.Status)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("project_id", id).Msg("project status update rejected")
		return sendServiceError(c, err,
			"you do not have permission to change this project",
			"project not found")
	}

	return utils.SendSuccess(c, "project status updated", project)
}

func (h *ProjectHandler) listTasks(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.tasks.ListByProject(requestContext(c), id, repository.TaskFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	}, taskSortFromQuery(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list project tasks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list tasks")
	}

	return utils.SendSuccess(c, "tasks retrieved", result)
}

func (h *ProjectHandler) updateTaskStatus(c *fiber.Ctx) error {
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task id")
	}

	var req dto.TaskStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.tasks.UpdateStatus(requestContext(c), taskID, viewerFromContext(c), req.Status)
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to change this task",
			"task not found")
	}

	return utils.SendSuccess(c, "task status updated", task)
}

func (h *ProjectHandler) listFeedback(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.feedback.ListByProject(requestContext(c), id, repository.FeedbackFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list feedback")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list feedback")
	}

	return utils.SendSuccess(c, "feedback retrieved", result)
}

func (h *ProjectHandler) createFeedback(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid project id")
	}

	var req dto.FeedbackCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.ProjectID = id

	feedback, err := h.feedback.Create(requestContext(c), viewerFromContext(c), req)
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to leave feedback on this project",
			"project not found")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback created", feedback)
}

func (h *ProjectHandler) updateFeedbackStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid feedback id")
	}

	var req dto.FeedbackStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedback.UpdateStatus(requestContext(c), id, viewerFromContext(c), req.Status)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("feedback_id", id).Msg("feedback status update rejected")
		return sendServiceError(c, err,
			"you do not have permission to change this feedback",
			"feedback not found")
	}

	return utils.SendSuccess(c, "feedback status updated", feedback)
}

func (h *ProjectHandler) replyFeedback(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid feedback id")
	}

	var req dto.FeedbackReplyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedback.Reply(requestContext(c), id, viewerFromContext(c), req)
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to respond to this feedback",
			"feedback not found")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "response added", feedback)
}
