// Package middleware holds the echo middleware shared by the routes:
// authentication, admin gating, response caching, rate limiting, request
// logging and HTTP metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/utils"
)

// JWTAuth validates a Bearer access token and stores its claims in the
// request context. Handlers read them through ManagerID and CurrentClaims.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin rejects managers without the admin flag. It must run after
// JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl := CurrentClaims(c)
			if cl == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !cl.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin only"})
			}
			return next(c)
		}
	}
}
