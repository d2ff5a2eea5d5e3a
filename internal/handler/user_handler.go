package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

// UserHandler serves profile pages and their sub-resources.
type UserHandler struct {
	profiles      service.ProfileService
	projects      service.ProjectService
	tasks         service.TaskService
	reviews       service.ReviewService
	activities    service.ActivityService
	notifications service.NotificationService
	logger        zerolog.Logger
	sseKeepAlive  time.Duration
}

// NewUserHandler constructs the handler.
func NewUserHandler(profiles service.ProfileService, projects service.ProjectService, tasks service.TaskService, reviews service.ReviewService, activities service.ActivityService, notifications service.NotificationService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		profiles:      profiles,
		projects:      projects,
		tasks:         tasks,
		reviews:       reviews,
		activities:    activities,
		notifications: notifications,
		logger:        logger.With().Str("component", "user_handler").Logger(),
		sseKeepAlive:  30 * time.Second,
	}
}

// Register wires the user profile routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("/:username", h.profile)
	router.Patch("/:username", h.update)
	router.Post("/:username/profile-photo", h.uploadPhoto)
	router.Get("/:username/projects", h.listProjects)
	router.Get("/:username/tasks", h.listTasks)
	router.Get("/:username/reviews", h.listReviews)
	router.Post("/:username/reviews", h.createReview)
	router.Get("/:username/rating-stats", h.ratingStats)
	router.Get("/:username/activities", h.listActivities)
	router.Get("/:username/notifications", h.listNotifications)
	router.Patch("/:username/notifications", h.markNotificationsRead)
	router.Get("/:username/notifications/stream", h.streamNotifications)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(requestContext(c), c.Params("username"), viewerFromContext(c))
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to view this profile",
			"profile not found")
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profiles.Update(requestContext(c), c.Params("username"), viewerFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("profile update rejected")
		return sendServiceError(c, err,
			"you do not have permission to edit this profile",
			"profile not found")
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *UserHandler) uploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file is required")
	}

	result, err := h.profiles.UploadPhoto(requestContext(c), c.Params("username"), viewerFromContext(c), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoTooLarge),
			errors.Is(err, service.ErrPhotoNotImage),
			errors.Is(err, service.ErrPhotoFileRequired):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return sendServiceError(c, err,
			"you do not have permission to edit this profile",
			"profile not found")
	}

	return utils.SendSuccess(c, "profile photo updated", result)
}

func (h *UserHandler) listProjects(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return sendServiceError(c, err, "", "profile not found")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.projects.ListByMember(requestContext(c), user.ID, repository.ProjectFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list projects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list projects")
	}

	return utils.SendSuccess(c, "projects retrieved", result)
}

func (h *UserHandler) listTasks(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return sendServiceError(c, err, "", "profile not found")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.tasks.ListByUser(requestContext(c), user.ID, repository.TaskFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	}, taskSortFromQuery(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list tasks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list tasks")
	}

	return utils.SendSuccess(c, "tasks retrieved", result)
}

func (h *UserHandler) listReviews(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return sendServiceError(c, err, "", "profile not found")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.reviews.ListBySubject(requestContext(c), user.ID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list reviews")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list reviews")
	}

	return utils.SendSuccess(c, "reviews retrieved", result)
}

func (h *UserHandler) createReview(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return sendServiceError(c, err, "", "profile not found")
	}

	var req dto.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	review, err := h.reviews.Create(requestContext(c), user, viewerFromContext(c), req)
	if err != nil {
		if errors.Is(err, service.ErrSelfReview) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return sendServiceError(c, err,
			"you do not have permission to review this profile",
			"profile not found")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "review created", review)
}

func (h *UserHandler) ratingStats(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return sendServiceError(c, err, "", "profile not found")
	}

	stats, err := h.reviews.RatingStats(requestContext(c), user.ID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load rating stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load rating stats")
	}

	return utils.SendSuccess(c, "rating stats retrieved", stats)
}

func (h *UserHandler) listActivities(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return sendServiceError(c, err, "", "profile not found")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.activities.ListByUser(requestContext(c), user.ID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities retrieved", result)
}

func (h *UserHandler) listNotifications(c *fiber.Ctx) error {
	user, err := h.resolveNotificationOwner(c)
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to view these notifications",
			"profile not found")
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	result, err := h.notifications.List(requestContext(c), user.ID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list notifications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notifications")
	}

	return utils.SendSuccess(c, "notifications retrieved", result)
}

func (h *UserHandler) markNotificationsRead(c *fiber.Ctx) error {
	user, err := h.resolveNotificationOwner(c)
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to modify these notifications",
			"profile not found")
	}

	var req dto.NotificationMarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.notifications.MarkRead(requestContext(c), user.ID, req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "notificationIds must be a non-empty list")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to mark notifications read")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark notifications read")
	}

	return utils.SendSuccess(c, "notifications updated", result)
}

func (h *UserHandler) streamNotifications(c *fiber.Ctx) error {
	user, err := h.resolveNotificationOwner(c)
	if err != nil {
		return sendServiceError(c, err,
			"you do not have permission to view these notifications",
			"profile not found")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(requestContext(c))

	stream, cleanup := h.notifications.Subscribe(user.ID)

	keepAlive := h.sseKeepAlive
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		ticker := time.NewTicker(keepAlive / 2)
		defer ticker.Stop()

		for {
			select {
			case notification, ok := <-stream:
				if !ok {
					return
				}
				if err := writeNotificationEvent(w, notification); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write notification event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write notification keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func (h *UserHandler) resolveUser(c *fiber.Ctx) (models.User, error) {
	return h.profiles.ResolveUser(requestContext(c), c.Params("username"))
}

// resolveNotificationOwner restricts notification sub-resources to the account
// owner and administrators.
func (h *UserHandler) resolveNotificationOwner(c *fiber.Ctx) (models.User, error) {
	user, err := h.resolveUser(c)
	if err != nil {
		return models.User{}, err
	}

	viewer := viewerFromContext(c)
	if viewer.UserID != user.ID && viewer.Role != models.RoleAdministrator {
		return models.User{}, service.ErrForbidden
	}

	return user, nil
}

func pageParams(c *fiber.Ctx) (int, int, error) {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func taskSortFromQuery(c *fiber.Ctx) service.TaskSort {
	order := service.TaskSort{
		By:         strings.ToLower(strings.TrimSpace(c.Query("sortBy"))),
		Descending: strings.EqualFold(strings.TrimSpace(c.Query("order")), "desc"),
	}
	switch order.By {
	case service.TaskSortPriority, service.TaskSortDeadline, service.TaskSortTitle, service.TaskSortCreated:
	default:
		order.By = service.TaskSortCreated
	}
	return order
}

func writeNotificationEvent(w *bufio.Writer, notification interface{}) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: notification\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
