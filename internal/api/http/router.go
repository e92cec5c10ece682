package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-grievance/grievance-service/internal/api/http/handlers"
	"github.com/campus-grievance/grievance-service/internal/auth"
	"github.com/campus-grievance/grievance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Issues         *handlers.IssuesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	authGroup.Put("/me", cfg.AuthMiddleware.Handle, cfg.Users.UpdateMe)

	// Status changes are gated by the policy after the value is validated,
	// so the route only requires authentication.
	issues := api.Group("/issues", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	issues.Post("/", cfg.Issues.Create)
	issues.Post("/create", cfg.Issues.Create)
	issues.Get("/user", cfg.Issues.ListOwn)
	issues.Get("/all", auth.RequireRole(domain.RoleFaculty, domain.RoleAdmin), cfg.Issues.ListAll)
	issues.Get("/stats", cfg.Issues.Stats)
	issues.Get("/:id", cfg.Issues.Get)
	issues.Patch("/:id/status", cfg.Issues.UpdateStatus)
}
