package service

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/invoicer/invoicing-app/internal/pkg/metrics"
	"github.com/invoicer/invoicing-app/internal/core/domain"
	"github.com/invoicer/invoicing-app/internal/core/ports"
)

// DefaultExpiryLeeway is how close to its expiry a persisted session may be
// and still get discarded at startup.
const DefaultExpiryLeeway = 500 * time.Millisecond

// expireTimeout bounds the storage cleanup run by the expiry timer.
const expireTimeout = 5 * time.Second

var companyKeys = []string{domain.KeyCompanyName, domain.KeyCompanyAddress, domain.KeyCompanyVAT, domain.KeyCompanyReg}

// SessionManager is the single source of truth for who is logged in and
// whether they finished onboarding. It mirrors the session into a
// SessionStore and logs the user out when the token expires.
//
// None of its operations return errors: storage failures are logged and the
// in-memory state stays authoritative.
type SessionManager struct {
	store  ports.SessionStore
	clock  clockwork.Clock
	log    zerolog.Logger
	leeway time.Duration

	mu      sync.RWMutex
	session domain.Session
	timer   clockwork.Timer
	// gen identifies the armed timer; callbacks from older timers are ignored.
	gen uint64
}

// NewSessionManager returns a logged-out manager. Call Initialize once at
// startup to rehydrate a persisted session.
func NewSessionManager(store ports.SessionStore, clock clockwork.Clock, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		clock:  clock,
		log:    log,
		leeway: DefaultExpiryLeeway,
	}
}

// Initialize restores the persisted session. It reports false, and clears the
// store, when nothing usable was stored: the expiry is missing, unparseable
// or within the leeway, or there is no token.
func (m *SessionManager) Initialize(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := m.readStored(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to read persisted session, starting logged out")
		m.discardLocked(ctx)
		return false
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, stored[domain.KeyExpirationTime])
	if err != nil {
		m.log.Debug().Msg("persisted session has no valid expiry, discarding")
		m.discardLocked(ctx)
		return false
	}

	remaining := expiresAt.Sub(m.clock.Now())
	if remaining <= m.leeway || stored[domain.KeyToken] == "" {
		m.log.Debug().Time("expires_at", expiresAt).Msg("persisted session expired, discarding")
		m.discardLocked(ctx)
		return false
	}

	m.session = domain.Session{
		UserID:    stored[domain.KeyUserID],
		Email:     stored[domain.KeyEmail],
		Name:      stored[domain.KeyName],
		Token:     stored[domain.KeyToken],
		ExpiresAt: expiresAt,
	}
	if stored[domain.KeyCompanyName] != "" {
		m.session.CompanyDetails = &domain.CompanyDetails{
			Name:      stored[domain.KeyCompanyName],
			Address:   stored[domain.KeyCompanyAddress],
			VATNumber: stored[domain.KeyCompanyVAT],
			RegNumber: stored[domain.KeyCompanyReg],
		}
	}
	m.armLocked(remaining)

	metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	m.log.Info().
		Str("user_id", m.session.UserID).
		Dur("remaining", remaining).
		Bool("company_details", m.session.CompanyDetails != nil).
		Msg("session restored")
	return true
}

// Login starts a session for user that expires at expiresAt. Company details
// start unknown; any previously armed expiry timer is replaced.
func (m *SessionManager) Login(ctx context.Context, user domain.User, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = domain.Session{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Token:     user.Token,
		ExpiresAt: expiresAt,
	}
	m.armLocked(expiresAt.Sub(m.clock.Now()))

	m.write(ctx, map[string]string{
		domain.KeyUserID:         user.UserID,
		domain.KeyEmail:          user.Email,
		domain.KeyName:           user.Name,
		domain.KeyToken:          user.Token,
		domain.KeyExpirationTime: expiresAt.UTC().Format(domain.ExpirationLayout),
	})
	m.delete(ctx, companyKeys...)

	metrics.LoginsTotal.Inc()
	m.log.Info().Str("user_id", user.UserID).Time("expires_at", expiresAt).Msg("session started")
}

// Logout clears the session in memory and in the store and cancels the
// expiry timer. Calling it while logged out is a no-op.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasLoggedIn := m.session.IsLoggedIn()
	m.logoutLocked(ctx)
	if wasLoggedIn {
		metrics.LogoutsTotal.WithLabelValues("explicit").Inc()
		m.log.Info().Msg("session ended")
	}
}

// SetCompanyDetails records the user's company details. It does not check
// that a session is active; callers do.
func (m *SessionManager) SetCompanyDetails(ctx context.Context, details domain.CompanyDetails) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCompanyDetailsLocked(ctx, details)
}

// SetCompanyDetailsIfCurrent stores details only while token is still the
// active session's token, so a slow backend response cannot attach company
// data to a session that was replaced or ended in the meantime.
func (m *SessionManager) SetCompanyDetailsIfCurrent(ctx context.Context, token string, details domain.CompanyDetails) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token == "" || token != m.session.Token {
		return false
	}
	m.setCompanyDetailsLocked(ctx, details)
	return true
}

func (m *SessionManager) setCompanyDetailsLocked(ctx context.Context, details domain.CompanyDetails) {
	m.session.CompanyDetails = &details
	m.write(ctx, map[string]string{
		domain.KeyCompanyName:    details.Name,
		domain.KeyCompanyAddress: details.Address,
		domain.KeyCompanyVAT:     details.VATNumber,
		domain.KeyCompanyReg:     details.RegNumber,
	})
}

// Snapshot returns a copy of the current session.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.session
	if s.CompanyDetails != nil {
		details := *s.CompanyDetails
		s.CompanyDetails = &details
	}
	return s
}

func (m *SessionManager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsLoggedIn()
}

func (m *SessionManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

func (m *SessionManager) HasCompanyDetails() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.HasCompanyDetails()
}

// Close stops the expiry timer and leaves the store untouched, so the
// session survives a process restart.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *SessionManager) onExpire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || !m.session.IsLoggedIn() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()

	userID := m.session.UserID
	m.logoutLocked(ctx)
	metrics.LogoutsTotal.WithLabelValues("expired").Inc()
	m.log.Info().Str("user_id", userID).Msg("session expired")
}

func (m *SessionManager) logoutLocked(ctx context.Context) {
	m.stopTimerLocked()
	m.session = domain.Session{}
	m.delete(ctx, domain.SessionKeys...)
}

func (m *SessionManager) discardLocked(ctx context.Context) {
	m.session = domain.Session{}
	m.delete(ctx, domain.SessionKeys...)
	metrics.SessionRestoresTotal.WithLabelValues("discarded").Inc()
}

// armLocked replaces the expiry timer with one firing after d.
func (m *SessionManager) armLocked(d time.Duration) {
	m.stopTimerLocked()
	gen := m.gen
	if d <= 0 {
		go m.onExpire(gen)
		return
	}
	m.timer = m.clock.AfterFunc(d, func() { m.onExpire(gen) })
}

func (m *SessionManager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *SessionManager) readStored(ctx context.Context) (map[string]string, error) {
	stored := make(map[string]string, len(domain.SessionKeys))
	for _, key := range domain.SessionKeys {
		v, ok, err := m.store.Get(ctx, key)
		if err != nil {
			metrics.SessionStoreErrorsTotal.WithLabelValues("read").Inc()
			return nil, err
		}
		if ok {
			stored[key] = v
		}
	}
	return stored, nil
}

func (m *SessionManager) write(ctx context.Context, values map[string]string) {
	if err := m.store.SetMany(ctx, values); err != nil {
		metrics.SessionStoreErrorsTotal.WithLabelValues("write").Inc()
		m.log.Error().Err(err).Msg("failed to persist session")
	}
}

func (m *SessionManager) delete(ctx context.Context, keys ...string) {
	if err := m.store.Delete(ctx, keys...); err != nil {
		metrics.SessionStoreErrorsTotal.WithLabelValues("delete").Inc()
		m.log.Error().Err(err).Msg("failed to clear persisted session")
	}
}
