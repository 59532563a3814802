// Package router registers the HTTP routes on an echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/handler"
	"github.com/iliyamo/boardgame-depot/internal/middleware"
)

// Guards carries the middleware routes are wrapped in. Nil entries are
// skipped.
type Guards struct {
	JWTSecret string
	// Cache serves public catalog reads from Redis.
	Cache echo.MiddlewareFunc
	// Invalidate clears the catalog cache after successful writes.
	Invalidate echo.MiddlewareFunc
	// LoginLimit rate limits POST /auth/login.
	LoginLimit echo.MiddlewareFunc
}

func (g Guards) auth() echo.MiddlewareFunc { return middleware.JWTAuth(g.JWTSecret) }

// writes is the chain in front of every mutating route.
func (g Guards) writes() []echo.MiddlewareFunc {
	return compact(g.auth(), g.Invalidate)
}

func (g Guards) cached() []echo.MiddlewareFunc {
	return compact(g.Cache)
}

func compact(ms ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(ms))
	for _, m := range ms {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAuth registers login and manager account routes.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	grp := e.Group("/auth")
	grp.POST("/login", a.Login, compact(g.LoginLimit)...)
	grp.GET("/profile", a.Profile, g.auth())
	grp.POST("/register", a.Register, g.auth(), middleware.RequireAdmin())
}
