package domain

import "time"

// Session is a point-in-time copy of the authenticated user and the validity
// window of their bearer token. The zero value is the logged-out session.
type Session struct {
	UserID         string
	Email          string
	Name           string
	Token          string
	CompanyDetails *CompanyDetails
	ExpiresAt      time.Time
}

// IsLoggedIn reports whether the session carries a bearer token.
func (s Session) IsLoggedIn() bool {
	return s.Token != ""
}

// HasCompanyDetails reports whether the user has completed onboarding.
func (s Session) HasCompanyDetails() bool {
	return s.CompanyDetails != nil
}

// Durable storage keys, all stored under a single namespace.
const (
	KeyUserID         = "user_id"
	KeyEmail          = "email"
	KeyName           = "name"
	KeyToken          = "token"
	KeyExpirationTime = "expirationTime"
	KeyCompanyName    = "companyName"
	KeyCompanyAddress = "companyAddress"
	KeyCompanyVAT     = "companyVat"
	KeyCompanyReg     = "companyReg"
)

// SessionKeys lists every key the session persists, in a stable order.
var SessionKeys = []string{
	KeyUserID,
	KeyEmail,
	KeyName,
	KeyToken,
	KeyExpirationTime,
	KeyCompanyName,
	KeyCompanyAddress,
	KeyCompanyVAT,
	KeyCompanyReg,
}

// ExpirationLayout is the ISO-8601 layout used for the persisted expiry,
// millisecond precision in UTC.
const ExpirationLayout = "2006-01-02T15:04:05.000Z07:00"
