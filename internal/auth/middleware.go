package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// identityKey is the echo context key holding the verified claims.
const identityKey = "auth_identity"

// Middleware creates an echo middleware that requires a valid bearer token
// and stores the verified identity in the request context.
//
// Missing, malformed, expired, and wrongly-signed credentials all produce the
// same 401 response so callers learn nothing about which check failed.
func Middleware(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return unauthorized()
			}

			claims, err := m.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return unauthorized()
			}

			c.Set(identityKey, claims)
			return next(c)
		}
	}
}

// Identity returns the verified claims set by Middleware.
func Identity(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(identityKey).(*Claims)
	return claims, ok
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}
