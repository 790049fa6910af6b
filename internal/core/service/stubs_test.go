package service

import (
	"context"
	"sync"

	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub session store
// ---------------------------------------------------------------------------

type stubStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
}

func newStubStore() *stubStore {
	return &stubStore{values: make(map[string]string)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *stubStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *stubStore) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// ---------------------------------------------------------------------------
// Stub backend: every call is routed to an optional fn field.
// ---------------------------------------------------------------------------

type stubBackend struct {
	loginFn         func(ctx context.Context, email, password string) (*domain.User, error)
	registerFn      func(ctx context.Context, in ports.RegisterInput) error
	getCompanyFn    func(ctx context.Context, token string) (*domain.CompanyDetails, error)
	putCompanyFn    func(ctx context.Context, token string, details domain.CompanyDetails) (*domain.CompanyDetails, error)
	listClientsFn   func(ctx context.Context, token string, params domain.ListParams) ([]domain.Client, int64, error)
	getClientFn     func(ctx context.Context, token, id string) (*domain.Client, error)
	createClientFn  func(ctx context.Context, token string, in domain.ClientInfo) (*domain.Client, error)
	updateClientFn  func(ctx context.Context, token, id string, in domain.ClientInfo) (*domain.Client, error)
	listInvoicesFn  func(ctx context.Context, token string, params domain.ListParams) ([]domain.InvoiceWithClient, int64, error)
	getInvoiceFn    func(ctx context.Context, token, id string) (*domain.Invoice, error)
	createInvoiceFn func(ctx context.Context, token string, in domain.InvoiceInfo) (*domain.Invoice, error)
	updateInvoiceFn func(ctx context.Context, token, id string, in domain.InvoiceInfo) (*domain.Invoice, error)
	calls           int
}

func (b *stubBackend) Login(ctx context.Context, email, password string) (*domain.User, error) {
	b.calls++
	return b.loginFn(ctx, email, password)
}

func (b *stubBackend) Register(ctx context.Context, in ports.RegisterInput) error {
	b.calls++
	return b.registerFn(ctx, in)
}

func (b *stubBackend) GetCompanyDetails(ctx context.Context, token string) (*domain.CompanyDetails, error) {
	b.calls++
	if b.getCompanyFn == nil {
		return nil, nil
	}
	return b.getCompanyFn(ctx, token)
}

func (b *stubBackend) PutCompanyDetails(ctx context.Context, token string, details domain.CompanyDetails) (*domain.CompanyDetails, error) {
	b.calls++
	return b.putCompanyFn(ctx, token, details)
}

func (b *stubBackend) ListClients(ctx context.Context, token string, params domain.ListParams) ([]domain.Client, int64, error) {
	b.calls++
	return b.listClientsFn(ctx, token, params)
}

func (b *stubBackend) GetClient(ctx context.Context, token, id string) (*domain.Client, error) {
	b.calls++
	return b.getClientFn(ctx, token, id)
}

func (b *stubBackend) CreateClient(ctx context.Context, token string, in domain.ClientInfo) (*domain.Client, error) {
	b.calls++
	return b.createClientFn(ctx, token, in)
}

func (b *stubBackend) UpdateClient(ctx context.Context, token, id string, in domain.ClientInfo) (*domain.Client, error) {
	b.calls++
	return b.updateClientFn(ctx, token, id, in)
}

func (b *stubBackend) ListInvoices(ctx context.Context, token string, params domain.ListParams) ([]domain.InvoiceWithClient, int64, error) {
	b.calls++
	return b.listInvoicesFn(ctx, token, params)
}

func (b *stubBackend) GetInvoice(ctx context.Context, token, id string) (*domain.Invoice, error) {
	b.calls++
	return b.getInvoiceFn(ctx, token, id)
}

func (b *stubBackend) CreateInvoice(ctx context.Context, token string, in domain.InvoiceInfo) (*domain.Invoice, error) {
	b.calls++
	return b.createInvoiceFn(ctx, token, in)
}

func (b *stubBackend) UpdateInvoice(ctx context.Context, token, id string, in domain.InvoiceInfo) (*domain.Invoice, error) {
	b.calls++
	return b.updateInvoiceFn(ctx, token, id, in)
}
