package ports

import (
	"context"

	"github.com/invoicer/invoicing-app/internal/core/domain"
)

// InvoiceService defines use-case operations for invoices.
type InvoiceService interface {
	List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.InvoiceWithClient], error)
	Get(ctx context.Context, id string) (*domain.Invoice, error)
	Create(ctx context.Context, in domain.InvoiceInfo) (*domain.Invoice, error)
	Update(ctx context.Context, id string, in domain.InvoiceInfo) (*domain.Invoice, error)
}
