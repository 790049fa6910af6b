package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
)

// SessionKey is the echo context key holding the domain.Session snapshot a
// request was admitted with.
const SessionKey = "session"

// RequireSession rejects requests while nobody is logged in and injects the
// current session snapshot into the context.
func RequireSession(session ports.SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := session.Snapshot()
			if !s.IsLoggedIn() {
				return domain.ErrNotLoggedIn
			}

			c.Set(SessionKey, s)
			c.Set("user_id", s.UserID)

			return next(c)
		}
	}
}

// RequireCompany enforces onboarding: the session snapshot injected by
// RequireSession must carry company details.
func RequireCompany() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := c.Get(SessionKey).(domain.Session)
			if !ok || !s.IsLoggedIn() {
				return domain.ErrNotLoggedIn
			}
			if !s.HasCompanyDetails() {
				return domain.ErrCompanyDetailsRequired
			}
			return next(c)
		}
	}
}
