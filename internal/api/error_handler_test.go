package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/invoicing-app/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "echo error",
			err:      echo.NewHTTPError(http.StatusBadRequest, "invalid payload"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid payload",
		},
		{
			name:     "validation",
			err:      &domain.ValidationError{Field: "email", Message: "Enter a valid email"},
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "email: Enter a valid email",
		},
		{
			name:     "authentication",
			err:      fmt.Errorf("login: %w", &domain.AuthenticationError{Message: "Invalid password"}),
			wantCode: http.StatusUnauthorized,
			wantMsg:  "Invalid password",
		},
		{
			name:     "not logged in",
			err:      domain.ErrNotLoggedIn,
			wantCode: http.StatusUnauthorized,
			wantMsg:  "not logged in",
		},
		{
			name:     "onboarding required",
			err:      fmt.Errorf("list clients: %w", domain.ErrCompanyDetailsRequired),
			wantCode: http.StatusForbidden,
			wantMsg:  "company details required",
		},
		{
			name:     "backend not found relayed",
			err:      &domain.ServerError{Status: http.StatusNotFound, Message: "Client not found"},
			wantCode: http.StatusNotFound,
			wantMsg:  "Client not found",
		},
		{
			name:     "backend failure",
			err:      &domain.ServerError{Status: http.StatusInternalServerError, Message: "Could not put company details."},
			wantCode: http.StatusBadGateway,
			wantMsg:  "Could not put company details.",
		},
		{
			name:     "backend unreachable",
			err:      &domain.ServerError{Message: "Could not reach the server.", Err: context.DeadlineExceeded},
			wantCode: http.StatusBadGateway,
			wantMsg:  "Could not reach the server.",
		},
		{
			name:     "unexpected",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.NoContent(http.StatusNoContent))

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
