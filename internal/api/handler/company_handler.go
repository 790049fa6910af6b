package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/core/ports"
)

// CompanyHandler serves the onboarding record of the logged-in user.
type CompanyHandler struct {
	authService ports.AuthService
}

func NewCompanyHandler(authService ports.AuthService) *CompanyHandler {
	return &CompanyHandler{authService: authService}
}

// Get refreshes the company details from the backend. A user who has not
// onboarded yet gets companyDetails: null.
//
// @Summary      Get company details
// @Tags         company
// @Produce      json
// @Success      200  {object}  companyResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /me/company [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	details, err := h.authService.RefreshCompanyDetails(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companyResponse{CompanyDetails: details})
}

// Put completes onboarding.
//
// @Summary      Register company details
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        body  body      companyRequest  true  "Company details"
// @Success      200   {object}  companyResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /me/company [put]
func (h *CompanyHandler) Put(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	details, err := h.authService.RegisterCompany(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companyResponse{CompanyDetails: details})
}
