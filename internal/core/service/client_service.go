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

type ClientService struct {
	backend  ports.Backend
	session  ports.SessionReader
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewClientService(backend ports.Backend, session ports.SessionReader, logger zerolog.Logger) *ClientService {
	return &ClientService{backend: backend, session: session, validate: validation.New(), logger: logger}
}

// List returns one page of the user's clients.
func (s *ClientService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.Client], error) {
	token, err := onboardedToken(s.session)
	if err != nil {
		return nil, err
	}
	params, err = normalizeParams(s.validate, params)
	if err != nil {
		return nil, err
	}
	// Clients are never filtered by client.
	params.Filter = ""

	clients, total, err := s.backend.ListClients(ctx, token, params)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return newPage(clients, total, params), nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	token, err := onboardedToken(s.session)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "is required"}
	}
	client, err := s.backend.GetClient(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return client, nil
}

func (s *ClientService) Create(ctx context.Context, in domain.ClientInfo) (*domain.Client, error) {
	token, err := onboardedToken(s.session)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	client, err := s.backend.CreateClient(ctx, token, in)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create client")
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.logger.Info().Str("client_id", client.ID).Msg("client created")
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in domain.ClientInfo) (*domain.Client, error) {
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

	client, err := s.backend.UpdateClient(ctx, token, id, in)
	if err != nil {
		return nil, fmt.Errorf("update client %s: %w", id, err)
	}
	s.logger.Info().Str("client_id", id).Msg("client updated")
	return client, nil
}
