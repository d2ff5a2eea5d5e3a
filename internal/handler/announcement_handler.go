package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// AnnouncementHandler handles platform announcement endpoints.
type AnnouncementHandler struct {
	service service.AnnouncementService
	logger  zerolog.Logger
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service service.AnnouncementService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// Register wires routes for announcements.
func (h *AnnouncementHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
}

func (h *AnnouncementHandler) list(c *fiber.Ctx) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.service.List(requestContext(c), limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list announcements")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list announcements")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "announcements retrieved", result)
}

func (h *AnnouncementHandler) create(c *fiber.Ctx) error {
	var req dto.AnnouncementCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement, err := h.service.Create(requestContext(c), viewerFromContext(c), req)
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to publish announcements",
			"")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement published", announcement)
}
