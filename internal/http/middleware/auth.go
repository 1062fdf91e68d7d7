package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docportal/internal/model"
)

// PrincipalLocalKey is the locals key holding the authenticated *model.Principal.
const PrincipalLocalKey = "principal"

// TokenVerifier resolves a bearer token into a principal.
type TokenVerifier interface {
	Authenticate(token string) (*model.Principal, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header.
func Authenticate(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		p, err := v.Authenticate(token)
		if err != nil || p == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(PrincipalLocalKey, p)
		return c.Next()
	}
}

// RequireRole lets the request through only for the given roles.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !slices.Contains(roles, p.Role) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil.
func GetPrincipal(c *fiber.Ctx) *model.Principal {
	p, _ := c.Locals(PrincipalLocalKey).(*model.Principal)
	return p
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
