package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/service"
)

// crudService is the shape shared by the reference data services.
type crudService[T, In any] interface {
	Create(ctx context.Context, in In) (*T, error)
	FindAll(ctx context.Context) ([]*T, error)
	FindOne(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, in In) (*T, error)
	Remove(ctx context.Context, id string) error
}

// CRUDHandler serves create/list/get/update/delete for one resource.
type CRUDHandler[T, In any] struct {
	svc    crudService[T, In]
	Logger *slog.Logger
}

func (h *CRUDHandler[T, In]) Create(c echo.Context) error {
	var in In
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	v, err := h.svc.Create(ctx, in)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *CRUDHandler[T, In]) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.svc.FindAll(ctx)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CRUDHandler[T, In]) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	v, err := h.svc.FindOne(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CRUDHandler[T, In]) Update(c echo.Context) error {
	var in In
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	v, err := h.svc.Update(ctx, c.Param("id"), in)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CRUDHandler[T, In]) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Remove(ctx, c.Param("id")); err != nil {
		return fail(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type (
	SellerHandler          = CRUDHandler[model.Seller, service.SellerInput]
	ClientHandler          = CRUDHandler[model.Client, service.ClientInput]
	GameDescriptionHandler = CRUDHandler[model.GameDescription, service.GameDescriptionInput]
)

func NewSellerHandler(s *service.SellerService, logger *slog.Logger) *SellerHandler {
	return &SellerHandler{svc: s, Logger: logger}
}

func NewClientHandler(s *service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{svc: s, Logger: logger}
}

func NewGameDescriptionHandler(s *service.GameDescriptionService, logger *slog.Logger) *GameDescriptionHandler {
	return &GameDescriptionHandler{svc: s, Logger: logger}
}

// SessionHandler adds the open-window queries to the session CRUD.
type SessionHandler struct {
	CRUDHandler[model.Session, service.SessionInput]
	Sessions *service.SessionService
}

func NewSessionHandler(s *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		CRUDHandler: CRUDHandler[model.Session, service.SessionInput]{svc: s, Logger: logger},
		Sessions:    s,
	}
}

// Open lists the sessions running now.
func (h *SessionHandler) Open(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Sessions.OpenSessions(ctx)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) IsOpen(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	open, err := h.Sessions.IsOpen(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "isOpen": open})
}
