package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
)

// IdentityKey is the echo.Context key holding the caller's *domain.Identity.
const IdentityKey = "identity"

// Auth resolves the bearer token into an identity and injects it into context.
// A missing or malformed header is treated like an invalid token so every
// rejection looks the same to the client.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := auth.Authenticate(c.Request().Context(), bearerToken(c))
			if err != nil {
				return err
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity set by Auth, or nil on unprotected routes.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
