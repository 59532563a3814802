package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/utils"
)

const claimsKey = "claims"

// CurrentClaims returns the verified token claims, or nil on routes
// without JWTAuth.
func CurrentClaims(c echo.Context) *utils.Claims {
	cl, _ := c.Get(claimsKey).(*utils.Claims)
	return cl
}

// ManagerID returns the authenticated manager id or "".
func ManagerID(c echo.Context) string {
	if cl := CurrentClaims(c); cl != nil {
		return cl.ManagerID
	}
	return ""
}

// subject identifies the caller in rate limit keys.
func subject(c echo.Context) string {
	if id := ManagerID(c); id != "" {
		return id
	}
	return "anon"
}
