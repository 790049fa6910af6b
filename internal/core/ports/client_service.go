package ports

import (
	"context"

	"github.com/invoicer/invoicing-app/internal/core/domain"
)

// ClientService defines use-case operations for clients.
type ClientService interface {
	List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.Client], error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, in domain.ClientInfo) (*domain.Client, error)
	Update(ctx context.Context, id string, in domain.ClientInfo) (*domain.Client, error)
}
