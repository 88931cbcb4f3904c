package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", auth.RequireRole(domain.RoleUser), cfg.Tickets.CreateTicket)
	tickets.Get("/my-tickets", auth.RequireRole(domain.RoleUser), cfg.Tickets.ListMine)
	tickets.Get("/admin/all", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.ListForAdmin)
	tickets.Patch("/:id/status", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.UpdateStatus)
	tickets.Get("/:id", auth.RequireRole(domain.RoleUser, domain.RoleAdmin), cfg.Tickets.GetTicket)
	tickets.Post("/:id/responses", auth.RequireRole(domain.RoleUser, domain.RoleAdmin), cfg.Tickets.AddResponse)
}
