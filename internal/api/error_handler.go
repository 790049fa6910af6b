package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/invoicer/invoicing-app/internal/core/domain"
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

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var (
		validationErr *domain.ValidationError
		authErr       *domain.AuthenticationError
		serverErr     *domain.ServerError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Error()
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, authErr.Message
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized, "not logged in"
	case errors.Is(err, domain.ErrCompanyDetailsRequired):
		return http.StatusForbidden, "company details required"
	case errors.As(err, &serverErr):
		// Backend 4xx answers are relayed; anything else means the backend failed us.
		if serverErr.Status >= 400 && serverErr.Status < 500 {
			return serverErr.Status, serverErr.Message
		}
		log.Warn().
			Err(err).
			Int("backend_status", serverErr.Status).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend error")
		return http.StatusBadGateway, serverErr.Message
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
