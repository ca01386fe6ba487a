// Package auth implements login, logout and session introspection.
package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/scentdesk/scentdesk/internal/shared"
	"github.com/scentdesk/scentdesk/internal/users"
)

// UserStore is the slice of the users repository auth depends on.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	Get(ctx context.Context, id int64) (*users.User, error)
	RecordLogin(ctx context.Context, userID int64, ip, ua string) error
	MarkOffline(ctx context.Context, userID int64) error
}

// Service wraps authentication business rules.
type Service struct {
	store    UserStore
	sessions *shared.SessionManager
}

// NewService constructs a new Service.
func NewService(store UserStore, sessions *shared.SessionManager) *Service {
	return &Service{store: store, sessions: sessions}
}

// Login validates credentials, issues a bearer session and records the login.
// Invalid credentials and inactive accounts are indistinguishable to callers.
func (s *Service) Login(ctx context.Context, email, password, ip, ua string) (*users.User, *shared.Session, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil, shared.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}

	sess, err := s.sessions.Issue(ctx, user.ID, ip, ua)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.RecordLogin(ctx, user.ID, ip, ua); err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Logout revokes the bearer token and marks the user offline.
func (s *Service) Logout(ctx context.Context, sess *shared.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sess.Token); err != nil {
		return err
	}
	return s.store.MarkOffline(ctx, sess.UserID)
}

// CurrentUser resolves the session to its user record.
func (s *Service) CurrentUser(ctx context.Context, sess *shared.Session) (*users.User, error) {
	if sess == nil {
		return nil, shared.ErrTokenMissing
	}
	return s.store.Get(ctx, sess.UserID)
}
