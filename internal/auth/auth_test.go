package auth

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmshelf/internal/session"
	"filmshelf/internal/storage"
	"filmshelf/internal/storage/memory"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(
		memory.NewUsers(),
		session.NewManager(session.NewMemoryStore(), 15*time.Minute),
		slog.Default(),
	)
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	err := svc.Register(t.Context(), "Ada", "a@x.com", "secret")
	require.NoError(t, err)

	t.Run("correct password authenticates", func(t *testing.T) {
		sess, err := svc.Login(t.Context(), "a@x.com", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)

		user, _, err := svc.Resolve(t.Context(), sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
	})

	t.Run("wrong password stays anonymous", func(t *testing.T) {
		_, err := svc.Login(t.Context(), "a@x.com", "wrong")
		require.ErrorIs(t, err, ErrPasswordIncorrect)
	})

	t.Run("unknown email is its own failure", func(t *testing.T) {
		_, err := svc.Login(t.Context(), "b@x.com", "secret")
		require.ErrorIs(t, err, ErrNoSuchUser)
	})
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	require.NoError(t, svc.Register(t.Context(), "Ada", "a@x.com", "secret"))

	err := svc.Register(t.Context(), "Imposter", "a@x.com", "other")
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	// the original account is untouched
	sess, err := svc.Login(t.Context(), "a@x.com", "secret")
	require.NoError(t, err)
	user, _, err := svc.Resolve(t.Context(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
}

func TestRegister_NoAutoLogin(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	require.NoError(t, svc.Register(t.Context(), "Ada", "a@x.com", "secret"))
	_, _, err := svc.Resolve(t.Context(), "")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	require.NoError(t, svc.Register(t.Context(), "Ada", "a@x.com", "secret"))
	sess, err := svc.Login(t.Context(), "a@x.com", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(t.Context(), sess.Token))
	require.NoError(t, svc.Logout(t.Context(), sess.Token))

	_, _, err = svc.Resolve(t.Context(), sess.Token)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()
	users := memory.NewUsers()
	svc := NewService(users, session.NewManager(session.NewMemoryStore(), 15*time.Minute), slog.Default())

	require.NoError(t, svc.Register(t.Context(), "Ada", "a@x.com", "secret"))
	sess, err := svc.Login(t.Context(), "a@x.com", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(t.Context(), sess.Token, "a@x.com"))

	_, err = users.GetUserByEmail(t.Context(), "a@x.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, _, err = svc.Resolve(t.Context(), sess.Token)
	require.ErrorIs(t, err, ErrNotAuthenticated)

	// racing an already-destroyed session is tolerated
	require.NoError(t, svc.Unsubscribe(t.Context(), sess.Token, "a@x.com"))
}

func TestResolve_DeletedPrincipal(t *testing.T) {
	t.Parallel()
	users := memory.NewUsers()
	svc := NewService(users, session.NewManager(session.NewMemoryStore(), 15*time.Minute), slog.Default())

	require.NoError(t, svc.Register(t.Context(), "Ada", "a@x.com", "secret"))
	sess, err := svc.Login(t.Context(), "a@x.com", "secret")
	require.NoError(t, err)

	// the account vanishes out from under the live session
	require.NoError(t, users.DeleteUserByEmail(t.Context(), "a@x.com"))

	_, _, err = svc.Resolve(t.Context(), sess.Token)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestPasswordNeverStoredPlaintext(t *testing.T) {
	t.Parallel()
	users := memory.NewUsers()
	svc := NewService(users, session.NewManager(session.NewMemoryStore(), 15*time.Minute), slog.Default())

	require.NoError(t, svc.Register(t.Context(), "Ada", "a@x.com", "secret"))
	user, err := users.GetUserByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.NotContains(t, string(user.Password), "secret")
}
