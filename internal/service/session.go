package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"handsaround/internal/backend"
	"handsaround/internal/domain"
	"handsaround/internal/logger"
	"handsaround/internal/security"
	"handsaround/internal/storage"
)

type sessionStore struct {
	mu        sync.RWMutex
	user      *domain.User
	client    backend.Client
	store     storage.LocalStore
	inspector security.TokenInspector
}

func NewSessionStore(client backend.Client, store storage.LocalStore, inspector security.TokenInspector) SessionStore {
	return &sessionStore{
		client:    client,
		store:     store,
		inspector: inspector,
	}
}

func (s *sessionStore) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Restore loads the persisted user. Missing, unreadable or expired records leave the session empty.
func (s *sessionStore) Restore(ctx context.Context) *domain.User {
	raw, err := s.store.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Could not read persisted user", "error", err)
		}
		return nil
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || checkUser("restore", &u) != nil {
		logger.Warn("Discarding unreadable persisted user", "error", err)
		s.forget(ctx)
		return nil
	}
	if err := s.inspector.CheckFresh(u.AuthToken, time.Now()); err != nil {
		logger.Info("Discarding persisted user with stale token", "user_id", u.ID, "reason", err)
		s.forget(ctx)
		return nil
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	logger.Info("Session restored", "user_id", u.ID, "role", u.Role)
	return s.CurrentUser()
}

func (s *sessionStore) Login(ctx context.Context, email, password string) (*domain.User, error) {
	logger.EnterMethod("sessionStore.Login")
	creds := domain.Credentials{Email: email, Password: password}
	creds.Normalize()
	if err := domain.Validate(&creds); err != nil {
		logger.ExitMethodWithError("sessionStore.Login", err)
		return nil, err
	}

	u, err := s.client.Login(ctx, creds.Email, creds.Password)
	if err == nil {
		err = checkUser("login", u)
	}
	if err != nil {
		logger.ExitMethodWithError("sessionStore.Login", err)
		return nil, err
	}

	s.activate(ctx, u)
	logger.ExitMethod("sessionStore.Login", "user_id", u.ID)
	return s.CurrentUser(), nil
}

// Register checks the form before any network call; an NGO must name its organization.
func (s *sessionStore) Register(ctx context.Context, signup domain.Signup) (*domain.User, error) {
	logger.EnterMethod("sessionStore.Register")
	signup.Normalize()
	if err := domain.Validate(&signup); err != nil {
		logger.ExitMethodWithError("sessionStore.Register", err)
		return nil, err
	}

	u, err := s.client.Register(ctx, signup)
	if err == nil && u != nil && u.OrganizationName == "" && u.Role == domain.RoleNGO {
		u.OrganizationName = signup.OrganizationName
	}
	if err == nil {
		err = checkUser("register", u)
	}
	if err != nil {
		logger.ExitMethodWithError("sessionStore.Register", err)
		return nil, err
	}

	s.activate(ctx, u)
	logger.ExitMethod("sessionStore.Register", "user_id", u.ID)
	return s.CurrentUser(), nil
}

func (s *sessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	return s.store.Remove(ctx, storage.KeyCurrentUser)
}

// PurgeIfExpired logs the user out once the backend token has run out.
func (s *sessionStore) PurgeIfExpired(ctx context.Context, now time.Time) bool {
	u := s.CurrentUser()
	if u == nil {
		return false
	}
	if err := s.inspector.CheckFresh(u.AuthToken, now); err == nil {
		return false
	}
	if err := s.Logout(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to clear expired session", "user_id", u.ID, "error", err)
	}
	logger.InfoContext(ctx, "Session expired", "user_id", u.ID)
	return true
}

// activate replaces the user and persists it. A storage failure only costs the
// session its survival across restarts, so it is logged rather than returned.
func (s *sessionStore) activate(ctx context.Context, u *domain.User) {
	if raw, err := json.Marshal(u); err == nil {
		if err := s.store.Set(ctx, storage.KeyCurrentUser, string(raw)); err != nil {
			logger.ErrorContext(ctx, "Failed to persist user", "user_id", u.ID, "error", err)
		}
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *sessionStore) forget(ctx context.Context) {
	if err := s.store.Remove(ctx, storage.KeyCurrentUser); err != nil {
		logger.ErrorContext(ctx, "Failed to clear persisted user", "error", err)
	}
}

// checkUser rejects backend users that could not be restored later: no id,
// an unknown role, or an NGO without an organization.
func checkUser(op string, u *domain.User) error {
	switch {
	case u == nil:
		return domain.BackendError(op, fmt.Errorf("response has no user"))
	case u.ID == "":
		return domain.BackendError(op, fmt.Errorf("user has no id"))
	case !u.Role.Valid():
		return domain.BackendError(op, fmt.Errorf("user has unknown role %q", u.Role))
	case u.Role == domain.RoleNGO && u.OrganizationName == "":
		return domain.BackendError(op, fmt.Errorf("NGO user has no organization name"))
	}
	return nil
}
