package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/pkg/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface. Every failed field is
// reported in one ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return &domain.ValidationError{Message: strings.Join(validation.Messages(err), "; ")}
}
