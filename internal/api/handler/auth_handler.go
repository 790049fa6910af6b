package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	session     ports.SessionReader
}

func NewAuthHandler(authService ports.AuthService, session ports.SessionReader) *AuthHandler {
	return &AuthHandler{authService: authService, session: session}
}

// Login authenticates against the backend and starts the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(s))
}

// Register creates the account and logs straight into it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Sign-up form"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSessionResponse(s))
}

// Logout ends the session. Logging out twice is not an error.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.authService.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Session reports the current session without requiring one.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}
