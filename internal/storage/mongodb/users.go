package mongodb

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"filmshelf/internal/storage"
)

// UserStore is a [storage.Users] backed by the users collection.
type UserStore struct {
	users  *mongo.Collection
	logger *slog.Logger
}

// NewUsers returns the credential store for an open connection.
func NewUsers(conn *Conn) *UserStore {
	return &UserStore{
		users:  conn.db.Collection(usersCollection),
		logger: conn.logger,
	}
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password []byte             `bson:"password"`
}

func (d userDoc) toUser() storage.User {
	return storage.User{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
	}
}

// GetUserByEmail satisfies the [storage.Users] interface. The match is
// exact; no normalization is applied.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.User{}, storage.ErrNotFound
	case err != nil:
		s.logger.ErrorContext(ctx, "user lookup by email failed", slog.Any("error", err))
		return storage.User{}, storage.ErrUnavailable
	}
	return doc.toUser(), nil
}

// GetUser satisfies the [storage.Users] interface.
func (s *UserStore) GetUser(ctx context.Context, id string) (storage.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.User{}, storage.ErrInvalidID
	}

	var doc userDoc
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.User{}, storage.ErrNotFound
	case err != nil:
		s.logger.ErrorContext(ctx, "user lookup by id failed", slog.Any("error", err))
		return storage.User{}, storage.ErrUnavailable
	}
	return doc.toUser(), nil
}

// InsertUser satisfies the [storage.Users] interface. The unique email index
// turns a concurrent duplicate registration into [storage.ErrAlreadyExists].
func (s *UserStore) InsertUser(ctx context.Context, user storage.User) error {
	_, err := s.users.InsertOne(ctx, userDoc{
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
	})
	switch {
	case mongo.IsDuplicateKeyError(err):
		return storage.ErrAlreadyExists
	case err != nil:
		s.logger.ErrorContext(ctx, "user insert failed", slog.Any("error", err))
		return storage.ErrUnavailable
	}
	return nil
}

// DeleteUserByEmail satisfies the [storage.Users] interface. A zero delete
// count is not an error.
func (s *UserStore) DeleteUserByEmail(ctx context.Context, email string) error {
	if _, err := s.users.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		s.logger.ErrorContext(ctx, "user delete failed", slog.Any("error", err))
		return storage.ErrUnavailable
	}
	return nil
}

var _ storage.Users = (*UserStore)(nil)
