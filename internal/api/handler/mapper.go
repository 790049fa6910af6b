package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/core/domain"
)

func toSessionResponse(s domain.Session) sessionResponse {
	if !s.IsLoggedIn() {
		return sessionResponse{}
	}
	resp := sessionResponse{
		LoggedIn:       true,
		UserID:         s.UserID,
		Email:          s.Email,
		Name:           s.Name,
		CompanyDetails: s.CompanyDetails,
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	return resp
}

func (r companyRequest) toDomain() domain.CompanyDetails {
	return domain.CompanyDetails{
		Name:      r.Name,
		Address:   r.Address,
		VATNumber: r.VATNumber,
		RegNumber: r.RegNumber,
	}
}

func (r clientRequest) toDomain() domain.ClientInfo {
	return domain.ClientInfo{
		Name:           r.Name,
		Email:          r.Email,
		CompanyDetails: r.CompanyDetails.toDomain(),
	}
}

// toDomain leaves Value unset; the invoice service derives it from Meta.
func (r invoiceRequest) toDomain() domain.InvoiceInfo {
	return domain.InvoiceInfo{
		InvoiceNumber: r.InvoiceNumber,
		ClientID:      r.ClientID,
		Date:          r.Date,
		DueDate:       r.DueDate,
		ProjectCode:   r.ProjectCode,
		Meta:          r.Meta,
	}
}

// bindListParams reads paging and ordering from the query string.
func bindListParams(c echo.Context) (domain.ListParams, error) {
	var p domain.ListParams
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("limit", &p.Limit).
		String("orderBy", &p.OrderBy).
		String("order", &p.Order).
		String("filter", &p.Filter).
		BindError()
	if err != nil {
		return domain.ListParams{}, &domain.ValidationError{Message: "invalid query parameters"}
	}
	return p, nil
}

// bindAndValidate decodes the JSON body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
