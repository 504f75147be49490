package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
	apperrors "github.com/ajay-verma30/Neil-admin-sub000/pkg/util"
)

// RequireRole ensures the principal carries one of the allowed roles. An
// empty list means any authenticated caller.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present without checking roles.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
