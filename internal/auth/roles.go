package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// MsgForbidden is returned when the caller's role is not in the allowed set.
const MsgForbidden = "You do not have permission to perform this action"

// RequireRole builds a handler that gates a route on the role carried in
// the verified token. It must be registered after Middleware.Handle; a
// request reaching it without claims means a route was wired without the
// auth middleware, which is a programming error and panics.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			panic("auth: RequireRole used without auth middleware on " + c.Path())
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[claims.Role]; !exists {
			return apperrors.NewForbidden(MsgForbidden)
		}
		return c.Next()
	}
}
