package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/http/handlers"
	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
	RateLimiter    *ratelimit.Limiter
}

// RegisterRoutes wires HTTP routes. Literal paths (profile, deleteAllUsers)
// are registered before their :id siblings so they win the match.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	users := app.Group("/users")
	users.Post("/register", cfg.RateLimiter.Handle("register"), cfg.Users.Register)
	users.Post("/login", cfg.RateLimiter.Handle("login"), cfg.Users.Login)

	protected := users.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/profile", cfg.Users.Profile)

	admin := protected.Group("", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/", cfg.Users.List)
	admin.Post("/", cfg.Users.Create)
	admin.Delete("/deleteAllUsers", cfg.Users.DeleteAll)
	admin.Get("/:id", cfg.Users.Get)
	admin.Put("/:id", cfg.Users.Update)
	admin.Delete("/:id", cfg.Users.Delete)
}
