package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/middleware"
	"github.com/iliyamo/boardgame-depot/internal/service"
)

// TransactionHandler serves /transaction.
type TransactionHandler struct {
	Sales  *service.TransactionService
	Logger *slog.Logger
}

func NewTransactionHandler(sales *service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{Sales: sales, Logger: logger}
}

// Create sells one game; the manager comes from the token.
func (h *TransactionHandler) Create(c echo.Context) error {
	var in service.SaleInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Sales.CreateTransaction(ctx, in, middleware.ManagerID(c))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// CreateBulk takes a JSON array of sales and records all or none.
func (h *TransactionHandler) CreateBulk(c echo.Context) error {
	var items []service.SaleInput
	if err := json.NewDecoder(c.Request().Body).Decode(&items); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Sales.CreateMultipleTransactions(ctx, items, middleware.ManagerID(c))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TransactionHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Sales.FindAll(ctx)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TransactionHandler) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Sales.FindOne(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransactionHandler) BySession(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Sales.FindBySessionID(ctx, c.Param("sessionId"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TransactionHandler) ByClient(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Sales.FindByClientID(ctx, c.Param("clientId"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TransactionHandler) BySeller(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Sales.FindBySellerID(ctx, c.Param("sellerId"))
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TransactionHandler) Update(c echo.Context) error {
	var in service.TransactionInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Sales.Update(ctx, c.Param("id"), in)
	if err != nil {
		return fail(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransactionHandler) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Sales.Remove(ctx, c.Param("id")); err != nil {
		return fail(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
