package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filmshelf/internal/storage"
)

// UserStore is an in-process [storage.Users]. Ids use the same ObjectID hex
// format as the real credential store so id validation behaves identically.
type UserStore struct {
	mu      sync.Mutex
	byID    map[string]storage.User
	byEmail map[string]storage.User
}

// NewUsers returns an empty UserStore.
func NewUsers() *UserStore {
	return &UserStore{
		byID:    make(map[string]storage.User),
		byEmail: make(map[string]storage.User),
	}
}

// GetUserByEmail satisfies the [storage.Users] interface.
func (s *UserStore) GetUserByEmail(_ context.Context, email string) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return user, nil
}

// GetUser satisfies the [storage.Users] interface.
func (s *UserStore) GetUser(_ context.Context, id string) (storage.User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return storage.User{}, storage.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return user, nil
}

// InsertUser satisfies the [storage.Users] interface. The email uniqueness
// check happens under the same lock as the insert, so it is authoritative.
func (s *UserStore) InsertUser(_ context.Context, user storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return storage.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

// DeleteUserByEmail satisfies the [storage.Users] interface.
func (s *UserStore) DeleteUserByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.byEmail[email]; ok {
		delete(s.byID, user.ID)
		delete(s.byEmail, email)
	}
	return nil
}

var _ storage.Users = (*UserStore)(nil)
