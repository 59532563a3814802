package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/boardgame-depot/internal/logging"
	"github.com/iliyamo/boardgame-depot/internal/metrics"
)

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String(logging.FieldMethod, v.Method),
				slog.String(logging.FieldURI, v.URI),
				slog.Int(logging.FieldStatusCode, v.Status),
				slog.Int64(logging.FieldDurationMS, v.Latency.Milliseconds()),
				slog.String(logging.FieldRequestID, v.RequestID),
			}
			if id := ManagerID(c); id != "" {
				attrs = append(attrs, slog.String(logging.FieldManagerID, id))
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), level, "http request", attrs...)
			return nil
		},
	})
}

// Metrics records count and latency per route pattern.
func Metrics(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.RecordHTTPRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
