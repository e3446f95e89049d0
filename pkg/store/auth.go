package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/tutorchat/client/pkg/domain"
	"github.com/tutorchat/client/pkg/logger"
)

type AuthState string

const (
	StateAnonymous      AuthState = "anonymous"
	StateAuthenticating AuthState = "authenticating"
	StateAuthenticated  AuthState = "authenticated"
	StateError          AuthState = "error"
)

type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.User, string, error)
	Register(ctx context.Context, reg domain.Registration) (domain.User, string, error)
	Me(ctx context.Context) (domain.User, error)
	Refresh(ctx context.Context) (string, error)
}

type SettingsStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AuthStore owns the authentication session. Register it with the transport's
// unauthorized observer so a 401 anywhere degrades it to anonymous.
type AuthStore struct {
	api     AuthAPI
	storage SettingsStorage

	mu      sync.RWMutex
	state   AuthState
	user    domain.User
	token   string
	lastErr string
	loading bool
}

func NewAuthStore(api AuthAPI, storage SettingsStorage) *AuthStore {
	return &AuthStore{
		api:     api,
		storage: storage,
		state:   StateAnonymous,
	}
}

// Login authenticates and persists the session. The error is recorded on the
// store for passive display and also returned so callers can react directly.
func (s *AuthStore) Login(ctx context.Context, creds domain.Credentials) error {
	if err := validateCredentials(creds); err != nil {
		s.recordError(err)
		return err
	}

	s.setAuthenticating()

	user, token, err := s.api.Login(ctx, creds)
	if err != nil {
		s.failAuth(err)
		return err
	}

	s.completeAuth(ctx, user, token)
	return nil
}

func (s *AuthStore) Register(ctx context.Context, reg domain.Registration) error {
	if err := validateRegistration(reg); err != nil {
		s.recordError(err)
		return err
	}

	s.setAuthenticating()

	user, token, err := s.api.Register(ctx, reg)
	if err != nil {
		s.failAuth(err)
		return err
	}

	s.completeAuth(ctx, user, token)
	return nil
}

// LoadUser restores the session at process start. Without a usable persisted
// token it is a no-op; a rejected token degrades silently to anonymous.
func (s *AuthStore) LoadUser(ctx context.Context) error {
	token, ok, err := s.storage.Get(ctx, domain.StorageKeyAuthToken)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if exp, err := TokenExpiry(token); err == nil && time.Now().After(exp) {
		slog.DebugContext(ctx, "stored token already expired, discarding")
		s.clearSession(ctx)
		return nil
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		slog.DebugContext(ctx, "stored token rejected, degrading to anonymous", logger.Err(err))
		s.clearSession(ctx)
		return nil
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.token = token
	s.lastErr = ""
	s.mu.Unlock()

	return nil
}

// Refresh exchanges the current token for a fresh one.
func (s *AuthStore) Refresh(ctx context.Context) error {
	token, err := s.api.Refresh(ctx)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, domain.StorageKeyAuthToken, token); err != nil {
		slog.WarnContext(ctx, "persisting refreshed token", logger.Err(err))
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	return nil
}

// Logout clears the session unconditionally. Safe to call when anonymous.
func (s *AuthStore) Logout(ctx context.Context) {
	s.clearSession(ctx)
}

// UpdateUser applies a local-only profile patch. The caller is responsible
// for having persisted the change remotely first.
func (s *AuthStore) UpdateUser(ctx context.Context, patch domain.UserPatch) {
	s.mu.Lock()
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	user := s.user
	s.mu.Unlock()

	if data, err := json.Marshal(user); err == nil {
		if err := s.storage.Set(ctx, domain.StorageKeyAuthUser, string(data)); err != nil {
			slog.WarnContext(ctx, "persisting user snapshot", logger.Err(err))
		}
	}
}

// HandleUnauthorized is the observer hook for the transport: the stored
// credentials are already gone by the time it runs, so it only drops the
// in-memory session.
func (s *AuthStore) HandleUnauthorized() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAnonymous
	s.user = domain.User{}
	s.token = ""
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = ""
	if s.state == StateError {
		s.state = StateAnonymous
	}
}

func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *AuthStore) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *AuthStore) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *AuthStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AuthStore) setAuthenticating() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAuthenticating
	s.loading = true
	s.lastErr = ""
}

func (s *AuthStore) failAuth(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAnonymous
	s.loading = false
	s.lastErr = err.Error()
}

func (s *AuthStore) completeAuth(ctx context.Context, user domain.User, token string) {
	if err := s.storage.Set(ctx, domain.StorageKeyAuthToken, token); err != nil {
		slog.WarnContext(ctx, "persisting token", logger.Err(err))
	}
	if data, err := json.Marshal(user); err == nil {
		if err := s.storage.Set(ctx, domain.StorageKeyAuthUser, string(data)); err != nil {
			slog.WarnContext(ctx, "persisting user snapshot", logger.Err(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAuthenticated
	s.user = user
	s.token = token
	s.loading = false
	s.lastErr = ""
}

func (s *AuthStore) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateError
	s.lastErr = err.Error()
}

func (s *AuthStore) clearSession(ctx context.Context) {
	for _, key := range []string{domain.StorageKeyAuthToken, domain.StorageKeyAuthUser} {
		if err := s.storage.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "clearing stored credential", "key", key, logger.Err(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAnonymous
	s.user = domain.User{}
	s.token = ""
	s.loading = false
	s.lastErr = ""
}

func validateCredentials(creds domain.Credentials) error {
	var result *multierror.Error
	if creds.Email == "" {
		result = multierror.Append(result, errors.New("email is required"))
	}
	if creds.Password == "" {
		result = multierror.Append(result, errors.New("password is required"))
	}
	return result.ErrorOrNil()
}

func validateRegistration(reg domain.Registration) error {
	var result *multierror.Error
	if reg.Email == "" {
		result = multierror.Append(result, errors.New("email is required"))
	}
	if reg.Password == "" {
		result = multierror.Append(result, errors.New("password is required"))
	}
	if reg.Name == "" {
		result = multierror.Append(result, errors.New("name is required"))
	}
	return result.ErrorOrNil()
}
