// Package rest exposes the authenticator and the ledger over HTTP using echo.
// Protected routes sit behind the bearer-token gate; auth routes are rate
// limited per client IP.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Default auth rate limit: 5 requests per second per IP with bursts of 10.
const (
	DefaultAuthRate  = rate.Limit(5)
	DefaultAuthBurst = 10
)

const shutdownTimeout = 5 * time.Second

// Deps bundles what the HTTP layer needs.
type Deps struct {
	Auth       Authenticator
	Ledger     Ledger
	Statements StatementExporter
	Verifier   TokenVerifier
	Logger     logging.Logger

	// AuthLimiter guards /api/auth/*. Nil disables rate limiting.
	AuthLimiter *RateLimiter
}

type handlers struct {
	auth       Authenticator
	ledger     Ledger
	statements StatementExporter
}

// bind decodes the request into dst and validates it. Malformed bodies are
// reported as validation errors.
func (h *handlers) bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
	}
	return c.Validate(dst)
}

// NewServer builds the echo instance with all routes and middleware.
func NewServer(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(d.Logger)

	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(observe(d.Logger))

	h := &handlers{auth: d.Auth, ledger: d.Ledger, statements: d.Statements}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Route-level middleware keeps unmatched /api paths a plain 404.
	var limit []echo.MiddlewareFunc
	if d.AuthLimiter != nil {
		limit = append(limit, d.AuthLimiter.Middleware())
	}
	api.POST("/auth/register", h.register, limit...)
	api.POST("/auth/login", h.login, limit...)
	api.POST("/auth/reset-password", h.resetPassword, limit...)

	gate := NewGate(d.Verifier).Middleware()
	api.GET("/expenses", h.listEntries, gate)
	api.POST("/expenses", h.addEntry, gate)
	api.DELETE("/expenses", h.deleteEntry, gate)
	api.DELETE("/expenses/:id", h.deleteEntry, gate)
	api.GET("/income", h.currentIncome, gate)
	api.POST("/income", h.recordIncome, gate)
	api.GET("/income/history", h.incomeHistory, gate)
	api.GET("/balance", h.balance, gate)
	api.POST("/statements", h.exportStatement, gate)

	return e
}

// Serve runs e on addr until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server starting", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "HTTP server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
