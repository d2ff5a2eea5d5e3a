package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// RepoHandler serves repository browser endpoints backed by the git daemon.
type RepoHandler struct {
	browser service.RepoBrowserService
	logger  zerolog.Logger
}

// NewRepoHandler constructs the handler.
func NewRepoHandler(browser service.RepoBrowserService, logger zerolog.Logger) *RepoHandler {
	return &RepoHandler{
		browser: browser,
		logger:  logger.With().Str("component", "repo_handler").Logger(),
	}
}

// Register wires the repository browser routes under a group owner prefix.
func (h *RepoHandler) Register(router fiber.Router) {
	router.Get("/:owner/repositories/:repo/overview", h.overview)
	router.Get("/:owner/repositories/:repo/tree", h.tree)
	router.Get("/:owner/repositories/:repo/commits", h.commits)
}

func (h *RepoHandler) overview(c *fiber.Ctx) error {
	result, err := h.browser.Overview(requestContext(c), c.Params("owner"), c.Params("repo"), viewerFromContext(c))
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to view this repository",
			"repository not found")
	}

	return utils.SendSuccess(c, "repository retrieved", result)
}

func (h *RepoHandler) tree(c *fiber.Ctx) error {
	result, err := h.browser.Tree(requestContext(c), c.Params("owner"), c.Params("repo"), c.Query("ref"), c.Query("path"), viewerFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("tree lookup failed")
		return sendServiceError(c, err,
			"you do not have permission to view this repository",
			"tree not found")
	}

	return utils.SendSuccess(c, "tree retrieved", result)
}

func (h *RepoHandler) commits(c *fiber.Ctx) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.browser.Commits(requestContext(c), c.Params("owner"), c.Params("repo"), c.Query("ref"), limit, offset, viewerFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("commit lookup failed")
		return sendServiceError(c, err,
			"you do not have permission to view this repository",
			"commits not found")
	}

	return utils.SendSuccess(c, "commits retrieved", result)
}
