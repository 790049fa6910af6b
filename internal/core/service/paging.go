package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
	"github.com/invoicer/invoicing-app/internal/pkg/validation"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// normalizeParams applies paging defaults and validates the sort order.
func normalizeParams(v *validator.Validate, p domain.ListParams) (domain.ListParams, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.OrderBy == "" {
		p.Order = ""
	}
	if err := validation.Struct(v, p); err != nil {
		return p, err
	}
	return p, nil
}

func newPage[T any](items []T, total int64, p domain.ListParams) *domain.Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &domain.Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}

// onboardedToken returns the session token of a user who finished onboarding.
func onboardedToken(session ports.SessionReader) (string, error) {
	s := session.Snapshot()
	if !s.IsLoggedIn() {
		return "", domain.ErrNotLoggedIn
	}
	if !s.HasCompanyDetails() {
		return "", domain.ErrCompanyDetailsRequired
	}
	return s.Token, nil
}
