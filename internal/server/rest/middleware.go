package rest

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDKey = "request_id"

// requestID reuses an incoming X-Request-ID or generates one, and echoes it
// back on the response.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

func requestIDFrom(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// observe logs every request once and records Prometheus metrics. Errors are
// rendered here so the final status is known.
func observe(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			req := c.Request()
			status := c.Response().Status
			elapsed := time.Since(start)

			requestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(req.Method, route).Observe(elapsed.Seconds())

			args := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"latency_ms", elapsed.Milliseconds(),
				"request_id", requestIDFrom(c),
			}
			if id := identityFrom(c); id.UserID != 0 {
				args = append(args, "user_id", id.UserID)
			}
			logger.Info(req.Context(), "request", args...)

			return nil
		}
	}
}
