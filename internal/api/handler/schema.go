package handler

import (
	"time"

	"github.com/invoicer/invoicing-app/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type companyRequest struct {
	Name      string `json:"name"      validate:"required"`
	Address   string `json:"address"   validate:"required"`
	VATNumber string `json:"vatNumber" validate:"required"`
	RegNumber string `json:"regNumber" validate:"required"`
}

type clientRequest struct {
	Name           string         `json:"name"           validate:"required"`
	Email          string         `json:"email"          validate:"required,email"`
	CompanyDetails companyRequest `json:"companyDetails"`
}

type invoiceRequest struct {
	InvoiceNumber string             `json:"invoice_number" validate:"required"`
	ClientID      string             `json:"client_id"      validate:"required"`
	Date          int64              `json:"date"           validate:"required,gt=0"`
	DueDate       int64              `json:"dueDate"        validate:"required,gtefield=Date"`
	ProjectCode   string             `json:"projectCode"    validate:"required"`
	Meta          map[string]float64 `json:"meta"           validate:"required,min=1"`
}

// --- Response types ---

type sessionResponse struct {
	LoggedIn       bool                   `json:"loggedIn"`
	UserID         string                 `json:"user_id,omitempty"`
	Email          string                 `json:"email,omitempty"`
	Name           string                 `json:"name,omitempty"`
	ExpiresAt      *time.Time             `json:"expiresAt,omitempty"`
	CompanyDetails *domain.CompanyDetails `json:"companyDetails"`
}

type companyResponse struct {
	CompanyDetails *domain.CompanyDetails `json:"companyDetails"`
}

type clientResponse struct {
	Client *domain.Client `json:"client"`
}

type clientsResponse struct {
	Clients    []domain.Client `json:"clients"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

type invoiceResponse struct {
	Invoice *domain.Invoice `json:"invoice"`
}

type invoicesResponse struct {
	Invoices   []domain.InvoiceWithClient `json:"invoices"`
	Total      int64                      `json:"total"`
	Page       int                        `json:"page"`
	Limit      int                        `json:"limit"`
	TotalPages int                        `json:"totalPages"`
}
