package domain

// User is the identity returned by the backend on a successful login.
type User struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email"   validate:"required"`
	Name   string `json:"name"`
	Token  string `json:"token"   validate:"required"`
}

// CompanyDetails is the one-time onboarding record a user completes before
// getting full access to clients and invoices.
type CompanyDetails struct {
	Name      string `json:"name"      validate:"required"`
	Address   string `json:"address"   validate:"required"`
	VATNumber string `json:"vatNumber" validate:"required"`
	RegNumber string `json:"regNumber" validate:"required"`
}
