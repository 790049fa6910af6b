package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/api/middleware"
	"github.com/invoicer/invoicing-app/internal/core/domain"
)

// ctxSession returns the snapshot injected by the session middleware and
// fails fast when the route was mounted without it.
func ctxSession(c echo.Context) (domain.Session, error) {
	s, ok := c.Get(middleware.SessionKey).(domain.Session)
	if !ok || !s.IsLoggedIn() {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	return s, nil
}
