package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/api/middleware"
	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
)

type stubAuthService struct {
	loginFn           func(ctx context.Context, email, password string) (domain.Session, error)
	registerFn        func(ctx context.Context, in ports.RegisterInput) (domain.Session, error)
	registerCompanyFn func(ctx context.Context, details domain.CompanyDetails) (*domain.CompanyDetails, error)
	refreshFn         func(ctx context.Context) (*domain.CompanyDetails, error)
	logouts           int
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (domain.Session, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context) {
	s.logouts++
}

func (s *stubAuthService) RegisterCompany(ctx context.Context, details domain.CompanyDetails) (*domain.CompanyDetails, error) {
	return s.registerCompanyFn(ctx, details)
}

func (s *stubAuthService) RefreshCompanyDetails(ctx context.Context) (*domain.CompanyDetails, error) {
	return s.refreshFn(ctx)
}

type stubSession struct {
	session domain.Session
}

func (s stubSession) Snapshot() domain.Session { return s.session }
func (s stubSession) IsLoggedIn() bool         { return s.session.IsLoggedIn() }

type stubClientService struct {
	listFn   func(ctx context.Context, params domain.ListParams) (*domain.Page[domain.Client], error)
	getFn    func(ctx context.Context, id string) (*domain.Client, error)
	createFn func(ctx context.Context, in domain.ClientInfo) (*domain.Client, error)
	updateFn func(ctx context.Context, id string, in domain.ClientInfo) (*domain.Client, error)
}

func (s *stubClientService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.Client], error) {
	return s.listFn(ctx, params)
}

func (s *stubClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.getFn(ctx, id)
}

func (s *stubClientService) Create(ctx context.Context, in domain.ClientInfo) (*domain.Client, error) {
	return s.createFn(ctx, in)
}

func (s *stubClientService) Update(ctx context.Context, id string, in domain.ClientInfo) (*domain.Client, error) {
	return s.updateFn(ctx, id, in)
}

type stubInvoiceService struct {
	listFn   func(ctx context.Context, params domain.ListParams) (*domain.Page[domain.InvoiceWithClient], error)
	getFn    func(ctx context.Context, id string) (*domain.Invoice, error)
	createFn func(ctx context.Context, in domain.InvoiceInfo) (*domain.Invoice, error)
	updateFn func(ctx context.Context, id string, in domain.InvoiceInfo) (*domain.Invoice, error)
}

func (s *stubInvoiceService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.InvoiceWithClient], error) {
	return s.listFn(ctx, params)
}

func (s *stubInvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.getFn(ctx, id)
}

func (s *stubInvoiceService) Create(ctx context.Context, in domain.InvoiceInfo) (*domain.Invoice, error) {
	return s.createFn(ctx, in)
}

func (s *stubInvoiceService) Update(ctx context.Context, id string, in domain.InvoiceInfo) (*domain.Invoice, error) {
	return s.updateFn(ctx, id, in)
}

var acme = domain.CompanyDetails{Name: "Acme", Address: "1 Road", VATNumber: "VAT1", RegNumber: "REG1"}

func aliceSession() domain.Session {
	details := acme
	return domain.Session{UserID: "u1", Email: "a@b.com", Name: "Alice", Token: "tok1", CompanyDetails: &details}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// withSession mimics the session middleware for handlers tested in isolation.
func withSession(c echo.Context, s domain.Session) {
	c.Set(middleware.SessionKey, s)
}
