package ports

import (
	"context"

	"github.com/invoicer/invoicing-app/internal/core/domain"
)

// SessionReader exposes the current session to request handlers.
type SessionReader interface {
	Snapshot() domain.Session
	IsLoggedIn() bool
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, in RegisterInput) (domain.Session, error)
	Logout(ctx context.Context)
	RegisterCompany(ctx context.Context, details domain.CompanyDetails) (*domain.CompanyDetails, error)
	RefreshCompanyDetails(ctx context.Context) (*domain.CompanyDetails, error)
}
