package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/service"
	"github.com/haulwise/backoffice/internal/infrastructure/queue"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// errorStatus lists domain errors by the status they map to. Order matters
// only where one error wraps another.
var errorStatus = []struct {
	err  error
	code int
}{
	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrCompanyNotFound, http.StatusNotFound},
	{domain.ErrManagerNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},

	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},

	{domain.ErrInvalidTransition, http.StatusConflict},
	{domain.ErrLedgerClosed, http.StatusConflict},
	{domain.ErrVersionConflict, http.StatusConflict},
	{domain.ErrDuplicateOrder, http.StatusConflict},
	{domain.ErrCompanyExists, http.StatusConflict},
	{domain.ErrUserExists, http.StatusConflict},

	{domain.ErrFeeWithoutTarget, http.StatusUnprocessableEntity},
	{domain.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{domain.ErrUnknownFeeType, http.StatusUnprocessableEntity},
	{domain.ErrInvalidBusinessNumber, http.StatusUnprocessableEntity},
	{domain.ErrNotCarrier, http.StatusUnprocessableEntity},
	{domain.ErrNotShipper, http.StatusUnprocessableEntity},
	{service.ErrInvalidCompany, http.StatusUnprocessableEntity},
	{service.ErrUnknownTemplate, http.StatusUnprocessableEntity},
	{service.ErrInvalidRecipient, http.StatusUnprocessableEntity},

	{queue.ErrQueueFull, http.StatusServiceUnavailable},
	{queue.ErrStopped, http.StatusServiceUnavailable},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.code, err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
