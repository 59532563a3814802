package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/middleware"
	"github.com/iliyamo/boardgame-depot/internal/service"
)

// AuthHandler serves login and manager account endpoints.
type AuthHandler struct {
	Auth   *service.AuthService
	Logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login: verify credentials and return an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Auth.IssueToken(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Profile returns the calling manager.
func (h *AuthHandler) Profile(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Auth.Profile(ctx, middleware.ManagerID(c))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Register creates another manager. Admin only.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Auth.Register(ctx, req)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, m)
}
