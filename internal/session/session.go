// Package session implements server-side login sessions. A session is a
// record keyed by an opaque token, mapping to the principal's user id, with a
// fixed inactivity window that is refreshed on every authenticated request.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session token.
const CookieName = "filmshelf_session"

const (
	// ErrNoSession is returned when a token does not resolve to a live
	// session. Expired and unknown tokens are indistinguishable to callers.
	ErrNoSession Error = "no session"
)

// Error is an error type returned by the session store.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Session is the server-side record for one logged-in client.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Store persists sessions keyed by token.
type Store interface {
	// Get returns the session for a token, or [ErrNoSession].
	Get(ctx context.Context, token string) (Session, error)
	// Put stores or replaces a session.
	Put(ctx context.Context, s Session) error
	// Delete removes a session. Deleting an absent token is a no-op.
	Delete(ctx context.Context, token string) error
}

// Manager creates, resolves and destroys sessions against a Store.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager returns a Manager with the given inactivity window.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// Create starts a session for the given principal. The token is an
// unguessable random UUID.
func (m *Manager) Create(ctx context.Context, userID string) (Session, error) {
	s := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.Put(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Resolve returns the live session for a token and slides its expiry
// forward. An expired session is destroyed and reported as [ErrNoSession].
func (m *Manager) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	s, err := m.store.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if m.now().After(s.ExpiresAt) {
		_ = m.store.Delete(ctx, token)
		return Session{}, ErrNoSession
	}
	s.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Put(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Destroy removes a session. Destroying a missing or already-destroyed
// session is not an error, so logout stays idempotent.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}
