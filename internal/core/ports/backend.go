package ports

import (
	"context"

	"github.com/invoicer/invoicing-app/internal/core/domain"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Backend is the remote REST API. Every call except Login and Register is
// authenticated with the session's bearer token.
type Backend interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) error
	// GetCompanyDetails returns nil when the user has not onboarded yet.
	GetCompanyDetails(ctx context.Context, token string) (*domain.CompanyDetails, error)
	PutCompanyDetails(ctx context.Context, token string, details domain.CompanyDetails) (*domain.CompanyDetails, error)

	ListClients(ctx context.Context, token string, params domain.ListParams) ([]domain.Client, int64, error)
	GetClient(ctx context.Context, token, id string) (*domain.Client, error)
	CreateClient(ctx context.Context, token string, client domain.ClientInfo) (*domain.Client, error)
	UpdateClient(ctx context.Context, token, id string, client domain.ClientInfo) (*domain.Client, error)

	ListInvoices(ctx context.Context, token string, params domain.ListParams) ([]domain.InvoiceWithClient, int64, error)
	GetInvoice(ctx context.Context, token, id string) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, token string, invoice domain.InvoiceInfo) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, token, id string, invoice domain.InvoiceInfo) (*domain.Invoice, error)
}
