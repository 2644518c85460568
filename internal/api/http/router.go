package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/http/handlers"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Jobs           *handlers.JobsHandler
	Applications   *handlers.ApplicationsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Unknown paths end in NotFound.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	protect := cfg.AuthMiddleware.Handle
	employerOrAdmin := auth.RequireRoles(domain.RoleEmployer, domain.RoleAdmin)

	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", protect, cfg.Auth.Me)
	authGroup.Post("/logout", protect, cfg.Auth.Logout)

	jobs := app.Group("/jobs")
	jobs.Get("/", cfg.Jobs.List)
	jobs.Get("/employer/mine", protect, employerOrAdmin, cfg.Jobs.Mine)
	jobs.Post("/", protect, employerOrAdmin, cfg.Jobs.Create)
	jobs.Post("/:jobId/apply", protect, cfg.Applications.Apply)
	jobs.Put("/:id", protect, employerOrAdmin, cfg.Jobs.Update)
	jobs.Delete("/:id", protect, employerOrAdmin, cfg.Jobs.Delete)
	jobs.Get("/:idOrSlug", cfg.Jobs.Get)

	applications := app.Group("/applications", protect)
	applications.Get("/me", cfg.Applications.Mine)
	applications.Get("/job/:jobId", employerOrAdmin, cfg.Applications.ForJob)
	applications.Patch("/:id/status", employerOrAdmin, cfg.Applications.UpdateStatus)
	applications.Delete("/:id", cfg.Applications.Withdraw)
	applications.Get("/:id", cfg.Applications.Get)

	users := app.Group("/users", protect)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Post("/resume", cfg.Users.UploadResume)

	admin := app.Group("/admin", protect, auth.RequireRoles(domain.RoleAdmin))
	admin.Get("/users", cfg.Users.List)
	admin.Patch("/users/:id/status", cfg.Users.SetStatus)

	app.Use(NotFound)
}
