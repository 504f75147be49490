package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/api/http/handlers"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/auth"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Placements     *handlers.PlacementsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	placements := app.Group("/placements", cfg.AuthMiddleware.Handle)
	placements.Get("/", auth.RequireAuthenticated(), cfg.Placements.ListByVariant)
	placements.Put("/", auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin), cfg.Placements.Save)
	placements.Delete("/:id", auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin), cfg.Placements.Delete)
}
