package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/utils"
)

// Role selectors used by the WithAuth helper. AuthRoleAny accepts any
// authenticated user, AuthRoleStaff any advisor, evaluator or administrator.
const (
	AuthRoleAny   = "ANY"
	AuthRoleStaff = "STAFF"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a handler with basic authentication/authorization guards.
// Administrators pass every role check.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := strings.ToUpper(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}

	requireUser := opts.RequireUser
	if !requireUser && role != AuthRoleAny {
		requireUser = true
	}

	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id")
		if requireUser && userID == nil {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		if role == AuthRoleAny {
			// Allow anonymous access when RequireUser=false; otherwise userID must exist.
			if !requireUser || userID != nil {
				return handler(c)
			}
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		currentRole := normalizeRoleValue(c.Locals("user_role"))
		switch role {
		case AuthRoleStaff:
			if currentRole != models.RoleAdvisor && currentRole != models.RoleEvaluator && currentRole != models.RoleAdministrator {
				return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
			}
		case models.RoleAdministrator:
			if currentRole != models.RoleAdministrator {
				return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
			}
		default:
			if currentRole != role && currentRole != models.RoleAdministrator {
				return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
			}
		}

		return handler(c)
	}
}
