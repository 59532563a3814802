// Package handler contains the echo handlers. Each handler decodes the
// request, calls one service method under a short timeout and maps the
// service error kind to an HTTP status.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/logging"
	"github.com/iliyamo/boardgame-depot/internal/service"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// statusOf maps a service error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as {"error": msg}. Unclassified errors are logged and
// answered with a generic message.
func fail(c echo.Context, logger *slog.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logging.Error(logger, "request failed", err,
			logging.FieldMethod, c.Request().Method, logging.FieldURI, c.Request().RequestURI)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": service.Message(err)})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
