package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/service"
)

// DepositedGameHandler serves /deposited-game.
type DepositedGameHandler struct {
	Games  *service.DepositedGameService
	Logger *slog.Logger
}

func NewDepositedGameHandler(games *service.DepositedGameService, logger *slog.Logger) *DepositedGameHandler {
	return &DepositedGameHandler{Games: games, Logger: logger}
}

func (h *DepositedGameHandler) Create(c echo.Context) error {
	return h.create(c, h.Games.Create)
}

// CreateInCurrentSession attaches the game to the one open session.
func (h *DepositedGameHandler) CreateInCurrentSession(c echo.Context) error {
	return h.create(c, h.Games.CreateInOpenSession)
}

func (h *DepositedGameHandler) create(c echo.Context,
	fn func(context.Context, service.DepositedGameInput) (*model.DepositedGameDetail, error)) error {
	var in service.DepositedGameInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := fn(ctx, in)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DepositedGameHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Games.FindAll(ctx)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DepositedGameHandler) Get(c echo.Context) error {
	return h.one(c, h.Games.FindOne)
}

func (h *DepositedGameHandler) BySeller(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Games.FindBySellerID(ctx, c.Param("sellerId"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DepositedGameHandler) BySession(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Games.FindBySessionID(ctx, c.Param("sessionId"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DepositedGameHandler) BySellerAndSession(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Games.FindBySellerAndSession(ctx, c.Param("sellerId"), c.Param("sessionId"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DepositedGameHandler) Update(c echo.Context) error {
	var in service.DepositedGameInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Games.Update(ctx, c.Param("id"), in)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DepositedGameHandler) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Games.Remove(ctx, c.Param("id")); err != nil {
		return fail(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DepositedGameHandler) SetForSale(c echo.Context) error {
	return h.one(c, h.Games.SetForSale)
}

func (h *DepositedGameHandler) RemoveFromSale(c echo.Context) error {
	return h.one(c, h.Games.RemoveFromSale)
}

func (h *DepositedGameHandler) MarkPickedUp(c echo.Context) error {
	return h.one(c, h.Games.MarkAsPickedUp)
}

// one runs an id-addressed operation returning the updated game.
func (h *DepositedGameHandler) one(c echo.Context,
	fn func(context.Context, string) (*model.DepositedGameDetail, error)) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := fn(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, d)
}
