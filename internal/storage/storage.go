// Package storage defines the contracts for the credential store and the two
// movie backends, along with the error taxonomy shared by all implementations.
package storage

import "context"

const (
	// ErrNotFound is returned when a lookup succeeds but matches no record.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned when a unique user already exists.
	ErrAlreadyExists Error = "already exists"
	// ErrInvalidID is returned when an identifier fails format validation
	// before any query is issued.
	ErrInvalidID Error = "invalid id"
	// ErrUnavailable is returned when the backing store failed to answer.
	// The detailed cause is logged at the adapter boundary; it never
	// propagates past this sentinel.
	ErrUnavailable Error = "service unavailable"
)

// Error is an error type returned by the storage implementations.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// User is a registered account. Password holds the bcrypt hash; plaintext
// passwords are never stored.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password []byte `json:"-"`
}

// Movie is the unified representation served by both backends. Summary
// listings fill ID, Title and Year; detail fetches also populate the
// descriptive fields.
type Movie struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Year    int32    `json:"year"`
	Plot    string   `json:"plot,omitempty"`
	Rated   string   `json:"rated,omitempty"`
	Runtime int32    `json:"runtime,omitempty"`
	Genres  []string `json:"genres,omitempty"`
	Actors  []string `json:"actors,omitempty"`
}

// Users are the methods responsible for accessing and modifying accounts.
type Users interface {
	// GetUserByEmail returns the user with the exact email given. An
	// [ErrNotFound] is returned if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// GetUser returns the user with the given store-native id. A malformed
	// id yields [ErrInvalidID] without touching the store; an unknown but
	// well-formed id yields [ErrNotFound].
	GetUser(ctx context.Context, id string) (User, error)
	// InsertUser appends a new user. The caller guarantees Password is
	// already hashed. The store's unique email constraint is authoritative:
	// a duplicate insert returns [ErrAlreadyExists].
	InsertUser(ctx context.Context, user User) error
	// DeleteUserByEmail removes the matching user. Deleting an absent user
	// is a no-op, not an error.
	DeleteUserByEmail(ctx context.Context, email string) error
}

// Movies is the query contract shared by both movie backends. The two
// implementations are unified by interface shape only; they are not required
// to return identical result sets for the same input.
type Movies interface {
	// Sample returns an unordered random subset of movie summaries.
	Sample(ctx context.Context, n int) ([]Movie, error)
	// GetByID returns full details for one movie. Malformed ids yield
	// [ErrInvalidID] before any query; well-formed ids with no match yield
	// [ErrNotFound].
	GetByID(ctx context.Context, id string) (Movie, error)
	// SearchByTitle returns title matches bounded to a fixed maximum.
	SearchByTitle(ctx context.Context, query string) ([]Movie, error)
}
