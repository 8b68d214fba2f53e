package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/fintrack/internal/server/services"
	"github.com/labstack/echo/v4"
)

// Authenticator is the subset of services.AuthService used by the HTTP layer.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *handlers) register(c echo.Context) error {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		recordAuth("register", err)
		return err
	}

	res, err := h.auth.Register(c.Request().Context(), req.Email, req.Password)
	recordAuth("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, res)
}

func (h *handlers) login(c echo.Context) error {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		recordAuth("login", err)
		return err
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	recordAuth("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}

func (h *handlers) resetPassword(c echo.Context) error {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		recordAuth("reset_password", err)
		return err
	}

	err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.Password)
	recordAuth("reset_password", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
