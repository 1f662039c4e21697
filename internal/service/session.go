// Package service provides the storefront's business logic: the session
// state machine and the cart synchronization engine, delegating persistence
// to repository interfaces and authentication to the identity provider.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arvachan/solestore/internal/identity"
	"github.com/arvachan/solestore/internal/models"
)

// ProfileRepository defines the persistence operations required by the
// session service.
type ProfileRepository interface {
	// ProfileByID fetches the profile for an identity ID, or (nil, nil)
	// when none exists yet.
	ProfileByID(ctx context.Context, id string) (*models.Profile, error)
	// UpsertProfile inserts or refreshes a profile row.
	UpsertProfile(ctx context.Context, p models.Profile) error
}

// SessionService owns the current authenticated identity and profile and
// drives every transition between signed-out, loading, and signed-in.
// Observers (the route guard's callers and the cart synchronizer) are
// notified synchronously after each transition.
type SessionService struct {
	provider identity.Provider
	profiles ProfileRepository
	siteURL  string
	validate *validator.Validate
	log      *zap.Logger

	mu           sync.Mutex
	loading      bool
	identity     *models.Identity
	profile      *models.Profile
	accessToken  string
	refreshToken string
	observers    []func()
}

// NewSessionService constructs a SessionService. The service starts in the
// loading state; call Restore once at startup to resolve it.
func NewSessionService(provider identity.Provider, profiles ProfileRepository, siteURL string, log *zap.Logger) *SessionService {
	return &SessionService{
		provider: provider,
		profiles: profiles,
		siteURL:  strings.TrimRight(siteURL, "/"),
		validate: validator.New(),
		log:      log,
		loading:  true,
	}
}

// Subscribe registers fn to run after every session transition. Subscribers
// are invoked synchronously, before the transitioning call returns, so the
// cart always reacts before any further cart operation is attempted.
func (s *SessionService) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// notify runs all observers. Must be called without holding mu.
func (s *SessionService) notify() {
	s.mu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

// Identity returns the current authenticated identity, or nil when signed
// out or still loading.
func (s *SessionService) Identity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Profile returns the loaded profile, or nil. A non-nil identity with a nil
// profile means the profile fetch is still outstanding; consumers must treat
// that as loading, not as signed out.
func (s *SessionService) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Loading reports whether session restoration or a profile fetch is still
// outstanding.
func (s *SessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Restore resolves a prior session at process start. With an empty or
// rejected refresh token the session settles as signed out; restoration
// failures are logged, never fatal. Observers are notified once the state is
// fully resolved.
func (s *SessionService) Restore(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		s.setSignedOut()
		s.notify()
		return
	}

	grant, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		s.log.Info("session restore rejected", zap.Error(err))
		s.setSignedOut()
		s.notify()
		return
	}

	profile, err := s.loadProfile(ctx, grant.Identity)
	if err != nil {
		s.log.Error("profile load failed during restore", zap.Error(err))
		s.setSignedOut()
		s.notify()
		return
	}

	s.setSignedIn(grant, profile)
	s.notify()
}

// SignIn authenticates with the identity provider and establishes the
// session. The profile is resolved before observers run, so the session is
// never surfaced half-populated.
func (s *SessionService) SignIn(ctx context.Context, email, password string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return models.E(models.KindValidation, "A valid email address is required.", err)
	}
	if password == "" {
		return models.E(models.KindValidation, "A password is required.", nil)
	}

	grant, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	profile, err := s.loadProfile(ctx, grant.Identity)
	if err != nil {
		return models.E(models.KindRemoteFailure, "Failed to load your profile.", err)
	}

	s.setSignedIn(grant, profile)
	s.notify()
	return nil
}

// SignUp registers a new identity. Success means confirmation is pending:
// no session is established until the user confirms and signs in.
func (s *SessionService) SignUp(ctx context.Context, email, password, fullName string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return models.E(models.KindValidation, "A valid email address is required.", err)
	}
	if err := validatePassword(password, password); err != nil {
		return err
	}

	id, err := s.provider.SignUp(ctx, email, password, fullName)
	if err != nil {
		return err
	}

	// Seed the profile row so the first confirmed sign-in finds it.
	if id.ID != "" {
		profile := models.Profile{ID: id.ID, Email: email, FullName: fullName, Role: models.RoleCustomer}
		if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
			s.log.Error("profile seed failed after sign-up", zap.Error(err))
		}
	}
	return nil
}

// SignOut clears the session. The local state is gone and observers have
// reacted before the provider revocation is even attempted; a failed
// revocation is logged and otherwise ignored.
func (s *SessionService) SignOut(ctx context.Context) {
	s.mu.Lock()
	token := s.accessToken
	s.mu.Unlock()

	s.setSignedOut()
	s.notify()

	if token == "" {
		return
	}
	if err := s.provider.SignOut(ctx, token); err != nil {
		s.log.Warn("provider sign-out failed", zap.Error(err))
	}
}

// RequestPasswordReset asks the provider to mail a reset link pointing back
// at the storefront's reset view. The dispatch is one-way; nothing changes
// locally.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return models.E(models.KindValidation, "A valid email address is required.", err)
	}
	return s.provider.RequestPasswordReset(ctx, email, s.siteURL+"/reset-password")
}

// CompletePasswordReset validates the reset link fragment and the new
// password, then forwards the change to the provider using the link's access
// token. Token authenticity is the provider's responsibility.
func (s *SessionService) CompletePasswordReset(ctx context.Context, fragment, newPassword, confirm string) error {
	tokens, err := identity.ParseResetFragment(fragment)
	if err != nil {
		return err
	}
	if err := validatePassword(newPassword, confirm); err != nil {
		return err
	}
	return s.provider.UpdatePassword(ctx, tokens.AccessToken, newPassword)
}

// loadProfile fetches the profile row for id, creating a default customer
// profile on first sign-in.
func (s *SessionService) loadProfile(ctx context.Context, id models.Identity) (*models.Profile, error) {
	profile, err := s.profiles.ProfileByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	created := models.Profile{ID: id.ID, Email: id.Email, Role: models.RoleCustomer}
	if err := s.profiles.UpsertProfile(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

// setSignedIn installs a fully resolved session.
func (s *SessionService) setSignedIn(grant *identity.Grant, profile *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := grant.Identity
	s.identity = &id
	s.profile = profile
	s.accessToken = grant.AccessToken
	s.refreshToken = grant.RefreshToken
	s.loading = false
}

// setSignedOut clears all session state.
func (s *SessionService) setSignedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.profile = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.loading = false
}

// validatePassword enforces the password policy: minimum 8 characters, at
// least one uppercase letter, one digit, and one special character, plus
// confirmation match.
func validatePassword(password, confirm string) error {
	if password != confirm {
		return models.E(models.KindValidation, "The passwords do not match.", nil)
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	var missing []string
	if len(password) < 8 {
		missing = append(missing, "minimum 8 characters")
	}
	if !hasUpper {
		missing = append(missing, "at least 1 uppercase letter")
	}
	if !hasDigit {
		missing = append(missing, "at least 1 number")
	}
	if !hasSpecial {
		missing = append(missing, "at least 1 special character")
	}
	if len(missing) > 0 {
		return models.E(models.KindValidation, fmt.Sprintf("Password must have: %s.", strings.Join(missing, ", ")), nil)
	}
	return nil
}
