package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
	"github.com/invoicer/invoicing-app/internal/pkg/validation"
)

// DefaultTokenTTL is the session length used when the token carries no
// expiry of its own.
const DefaultTokenTTL = 2 * time.Hour

// AuthService implements login, registration and company onboarding on top of
// the backend and the session manager.
type AuthService struct {
	backend  ports.Backend
	session  *SessionManager
	clock    clockwork.Clock
	tokenTTL time.Duration
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(backend ports.Backend, session *SessionManager, clock clockwork.Clock, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		backend:  backend,
		session:  session,
		clock:    clock,
		tokenTTL: tokenTTL,
		validate: validation.New(),
		log:      log,
	}
}

// Login authenticates against the backend, starts the session and then
// tries to load the user's company details. A failure to load them leaves the
// user logged in but not onboarded.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Session{}, &domain.ValidationError{Field: "email", Message: "Enter a valid email"}
	}
	if strings.TrimSpace(password) == "" {
		return domain.Session{}, &domain.ValidationError{Field: "password", Message: "Enter a valid password"}
	}

	user, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	s.session.Login(ctx, *user, tokenExpiry(user.Token, s.clock.Now(), s.tokenTTL))

	if _, err := s.syncCompanyDetails(ctx, user.Token); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.UserID).Msg("failed to fetch company details after login")
	}
	return s.session.Snapshot(), nil
}

// Register creates the account and logs straight into it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (domain.Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(s.validate, in); err != nil {
		return domain.Session{}, err
	}

	if err := s.backend.Register(ctx, in); err != nil {
		return domain.Session{}, fmt.Errorf("register: %w", err)
	}
	s.log.Info().Str("email", in.Email).Msg("account registered")

	sess, err := s.Login(ctx, in.Email, in.Password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login after registration: %w", err)
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

// RegisterCompany sends the onboarding form to the backend and records the
// details it confirms.
func (s *AuthService) RegisterCompany(ctx context.Context, details domain.CompanyDetails) (*domain.CompanyDetails, error) {
	token := s.session.Token()
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if err := validation.Struct(s.validate, details); err != nil {
		return nil, err
	}

	updated, err := s.backend.PutCompanyDetails(ctx, token, details)
	if err != nil {
		return nil, fmt.Errorf("put company details: %w", err)
	}
	if !s.session.SetCompanyDetailsIfCurrent(ctx, token, *updated) {
		return nil, domain.ErrNotLoggedIn
	}
	return updated, nil
}

// RefreshCompanyDetails reloads the company details from the backend. It
// returns nil details when the user has not onboarded yet.
func (s *AuthService) RefreshCompanyDetails(ctx context.Context) (*domain.CompanyDetails, error) {
	token := s.session.Token()
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}
	return s.syncCompanyDetails(ctx, token)
}

func (s *AuthService) syncCompanyDetails(ctx context.Context, token string) (*domain.CompanyDetails, error) {
	details, err := s.backend.GetCompanyDetails(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get company details: %w", err)
	}
	if details != nil {
		s.session.SetCompanyDetailsIfCurrent(ctx, token, *details)
	}
	return details, nil
}

// tokenExpiry uses the token's exp claim when the token is a JWT carrying one,
// and now+ttl otherwise. A past exp is kept so the session expires at once.
// The signature belongs to the backend and is not checked here.
func tokenExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return now.Add(ttl)
}
