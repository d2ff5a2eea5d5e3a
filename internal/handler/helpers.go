package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/middleware"
	"github.com/prp-platform/prp-api/internal/service"
	"github.com/prp-platform/prp-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseIDParam(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Params(key))
	if raw == "" {
		return 0, errors.New("id required")
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return strings.ToUpper(strings.TrimSpace(role))
		}
	}
	return ""
}

func viewerFromContext(c *fiber.Ctx) access.Viewer {
	return access.Viewer{
		UserID: userIDFromContext(c),
		Role:   userRoleFromContext(c),
	}
}

// requestContext propagates the correlation id into the context handed to
// services.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError maps the service error taxonomy onto HTTP statuses. The
// forbidden branch keeps a permission-specific message so clients can
// distinguish denied access from a missing resource.
func sendServiceError(c *fiber.Ctx, err error, forbiddenMessage, notFoundMessage string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		if forbiddenMessage == "" {
			forbiddenMessage = "you do not have permission to perform this action"
		}
		return utils.SendError(c, fiber.StatusForbidden, forbiddenMessage)
	case errors.Is(err, service.ErrNotFound):
		if notFoundMessage == "" {
			notFoundMessage = "resource not found"
		}
		return utils.SendError(c, fiber.StatusNotFound, notFoundMessage)
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
