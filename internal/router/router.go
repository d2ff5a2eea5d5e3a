package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prp-platform/prp-api/internal/config"
	"github.com/prp-platform/prp-api/internal/handler"
	"github.com/prp-platform/prp-api/internal/middleware"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	UserHandler         *handler.UserHandler
	ProjectHandler      *handler.ProjectHandler
	RepoHandler         *handler.RepoHandler
	StudentHandler      *handler.StudentHandler
	AdvisorHandler      *handler.AdvisorHandler
	EvaluatorHandler    *handler.EvaluatorHandler
	AnnouncementHandler *handler.AnnouncementHandler
	SearchHandler       *handler.SearchHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware)
		deps.UserHandler.Register(users)
	}

	if deps.ProjectHandler != nil {
		projects := api.Group("/projects", jwtMiddleware)
		deps.ProjectHandler.Register(projects)

		feedback := api.Group("/feedback", jwtMiddleware)
		deps.ProjectHandler.RegisterFeedback(feedback)
	}

	if deps.RepoHandler != nil {
		groups := api.Group("/groups", jwtMiddleware)
		deps.RepoHandler.Register(groups)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware,
			middleware.RequireRole(models.RoleStudent, models.RoleAdministrator))
		deps.StudentHandler.Register(student)
	}

	if deps.AdvisorHandler != nil {
		advisor := api.Group("/advisor", jwtMiddleware,
			middleware.RequireRole(models.RoleAdvisor, models.RoleAdministrator))
		deps.AdvisorHandler.Register(advisor)
	}

	if deps.EvaluatorHandler != nil {
		evaluator := api.Group("/evaluator", jwtMiddleware,
			middleware.RequireRole(models.RoleEvaluator, models.RoleAdministrator))
		deps.EvaluatorHandler.Register(evaluator)
	}

	if deps.AnnouncementHandler != nil {
		announcements := api.Group("/announcements", jwtMiddleware)
		deps.AnnouncementHandler.Register(announcements)
	}

	if deps.SearchHandler != nil {
		search := api.Group("/search", jwtMiddleware)
		deps.SearchHandler.Register(search)
	}
}
