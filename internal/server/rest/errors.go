package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal Server Error"

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// errorResponse maps an error to a status code and a message that is safe to
// show to the caller. Errors marked common.ErrorInternal, and anything outside
// the taxonomy, are internal and their text is never returned.
func errorResponse(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, common.ErrorInternal):
		return http.StatusInternalServerError, internalErrorMessage
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, common.Detail(err, common.ErrorValidation)
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, common.ErrorAuth):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, common.Detail(err, common.ErrorUnauthorized)
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.Detail(err, common.ErrorNotFound)
	case errors.Is(err, common.ErrFeatureDisabled):
		return http.StatusNotFound, common.Detail(err, common.ErrFeatureDisabled)
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			return he.Code, internalErrorMessage
		}
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// HTTPErrorHandler writes errors as {"error": "..."} and logs internal ones
// with their full cause.
func HTTPErrorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error(c.Request().Context(), "request failed",
				"error", err,
				"request_id", requestIDFrom(c),
				"path", c.Path(),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorBody{Error: msg})
		}
		if err != nil {
			logger.Error(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
