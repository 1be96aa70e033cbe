// Package auth implements the authentication workflow: login, logout,
// registration and account deletion, plus principal resolution for the
// session gate.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"filmshelf/internal/sec"
	"filmshelf/internal/session"
	"filmshelf/internal/storage"
)

const (
	// ErrNoSuchUser is returned when the submitted email matches no account.
	ErrNoSuchUser Error = "no such user"
	// ErrPasswordIncorrect is returned on a credential mismatch.
	ErrPasswordIncorrect Error = "password incorrect"
	// ErrNotAuthenticated is returned when a token does not resolve to a
	// live principal.
	ErrNotAuthenticated Error = "not authenticated"
)

// Error is an error type returned by the authentication workflow.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Service drives the authentication state machine against the credential
// store and the session manager.
type Service struct {
	users    storage.Users
	sessions *session.Manager
	logger   *slog.Logger
}

// NewService wires the workflow to its collaborators.
func NewService(users storage.Users, sessions *session.Manager, logger *slog.Logger) *Service {
	return &Service{users: users, sessions: sessions, logger: logger}
}

// Login verifies the credential pair and starts a session for the matched
// principal. The two failure modes are distinguished so the UI can surface
// "no such user" separately from "password incorrect".
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return session.Session{}, ErrNoSuchUser
	case err != nil:
		return session.Session{}, err
	}
	if err = sec.ComparePassword(password, user.Password); err != nil {
		return session.Session{}, ErrPasswordIncorrect
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return session.Session{}, err
	}
	s.logger.InfoContext(ctx, "user logged in", slog.String("user", user.ID))
	return sess, nil
}

// Logout destroys the session. Logging out twice, or with no session at
// all, is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Register creates a new account and leaves the caller anonymous; there is
// no auto-login. The pre-check gives a friendly duplicate message, but the
// store's unique constraint is what actually prevents a duplicate slipping
// in between check and insert.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return storage.ErrAlreadyExists
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return err
	}
	if err = s.users.InsertUser(ctx, storage.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user registered", slog.String("email", email))
	return nil
}

// Unsubscribe deletes the account for the given email and destroys the
// session. A session that already expired mid-flight is tolerated; the
// caller ends up anonymous either way.
func (s *Service) Unsubscribe(ctx context.Context, token, email string) error {
	if err := s.users.DeleteUserByEmail(ctx, email); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user unsubscribed", slog.String("email", email))
	return s.sessions.Destroy(ctx, token)
}

// Resolve maps a session token to its principal. The lookup is synchronous:
// the gate never authorizes against an unresolved principal. A session whose
// account has been deleted is destroyed and reported unauthenticated rather
// than erroring.
func (s *Service) Resolve(ctx context.Context, token string) (storage.User, session.Session, error) {
	sess, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return storage.User{}, session.Session{}, ErrNotAuthenticated
	}

	user, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.logger.ErrorContext(ctx, "principal resolution unavailable", slog.String("user", sess.UserID))
		}
		_ = s.sessions.Destroy(ctx, sess.Token)
		return storage.User{}, session.Session{}, ErrNotAuthenticated
	}
	return user, sess, nil
}
