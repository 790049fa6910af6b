package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
	"github.com/invoicer/invoicing-app/internal/pkg/validation"
)

type InvoiceService struct {
	backend  ports.Backend
	session  ports.SessionReader
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewInvoiceService(backend ports.Backend, session ports.SessionReader, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{backend: backend, session: session, validate: validation.New(), logger: logger}
}

// List returns one page of invoices, each paired with its client. A non-empty
// params.Filter restricts the listing to that client.
func (s *InvoiceService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.InvoiceWithClient], error) {
	token, err := onboardedToken(s.session)
	if err != nil {
		return nil, err
	}
	params, err = normalizeParams(s.validate, params)
	if err != nil {
		return nil, err
	}

	invoices, total, err := s.backend.ListInvoices(ctx, token, params)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return newPage(invoices, total, params), nil
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	token, err := onboardedToken(s.session)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "is required"}
	}
	invoice, err := s.backend.GetInvoice(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return invoice, nil
}

// Create issues a new invoice. Its value is always the sum of its items.
func (s *InvoiceService) Create(ctx context.Context, in domain.InvoiceInfo) (*domain.Invoice, error) {
	token, err := onboardedToken(s.session)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	in.Value = in.Total()

	invoice, err := s.backend.CreateInvoice(ctx, token, in)
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_number", in.InvoiceNumber).Msg("failed to create invoice")
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	s.logger.Info().
		Str("invoice_id", invoice.ID).
		Str("client_id", in.ClientID).
		Float64("value", in.Value).
		Msg("invoice created")
	return invoice, nil
}

func (s *InvoiceService) Update(ctx context.Context, id string, in domain.InvoiceInfo) (*domain.Invoice, error) {
	token, err := onboardedToken(s.session)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "is required"}
	}
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	in.Value = in.Total()

	invoice, err := s.backend.UpdateInvoice(ctx, token, id, in)
	if err != nil {
		return nil, fmt.Errorf("update invoice %s: %w", id, err)
	}
	s.logger.Info().Str("invoice_id", id).Msg("invoice updated")
	return invoice, nil
}
