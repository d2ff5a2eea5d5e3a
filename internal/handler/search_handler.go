package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// SearchHandler serves the cross-entity search endpoint.
type SearchHandler struct {
	service service.SearchService
	logger  zerolog.Logger
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(service service.SearchService, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger.With().Str("component", "search_handler").Logger(),
	}
}

// Register wires the search route.
func (h *SearchHandler) Register(router fiber.Router) {
	router.Get("", h.search)
}

func (h *SearchHandler) search(c *fiber.Ctx) error {
	result, err := h.service.Search(requestContext(c), c.Query("q"))
	if err != nil {
		if errors.Is(err, service.ErrQueryTooShort) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("search failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "search failed")
	}

	return utils.SendSuccess(c, "search completed", result)
}
