package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("create and resolve", func(t *testing.T) {
		t.Parallel()
		m := NewManager(NewMemoryStore(), time.Minute)

		sess, err := m.Create(t.Context(), "user-1")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)

		got, err := m.Resolve(t.Context(), sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		t.Parallel()
		m := NewManager(NewMemoryStore(), time.Minute)

		a, err := m.Create(t.Context(), "user-1")
		require.NoError(t, err)
		b, err := m.Create(t.Context(), "user-1")
		require.NoError(t, err)
		assert.NotEqual(t, a.Token, b.Token)
	})

	t.Run("empty token does not resolve", func(t *testing.T) {
		t.Parallel()
		m := NewManager(NewMemoryStore(), time.Minute)

		_, err := m.Resolve(t.Context(), "")
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("unknown token does not resolve", func(t *testing.T) {
		t.Parallel()
		m := NewManager(NewMemoryStore(), time.Minute)

		_, err := m.Resolve(t.Context(), "bogus")
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("expired session is destroyed", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		m := NewManager(store, time.Minute)

		sess, err := m.Create(t.Context(), "user-1")
		require.NoError(t, err)

		m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err = m.Resolve(t.Context(), sess.Token)
		require.ErrorIs(t, err, ErrNoSession)

		// gone from the store too, not just reported expired
		_, err = store.Get(t.Context(), sess.Token)
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("resolve slides expiry", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		m := NewManager(store, time.Minute)

		sess, err := m.Create(t.Context(), "user-1")
		require.NoError(t, err)

		// 30s later the window has moved, so another 45s is still live
		base := time.Now()
		m.now = func() time.Time { return base.Add(30 * time.Second) }
		_, err = m.Resolve(t.Context(), sess.Token)
		require.NoError(t, err)

		m.now = func() time.Time { return base.Add(75 * time.Second) }
		_, err = m.Resolve(t.Context(), sess.Token)
		require.NoError(t, err)
	})

	t.Run("destroy is idempotent", func(t *testing.T) {
		t.Parallel()
		m := NewManager(NewMemoryStore(), time.Minute)

		sess, err := m.Create(t.Context(), "user-1")
		require.NoError(t, err)

		require.NoError(t, m.Destroy(t.Context(), sess.Token))
		require.NoError(t, m.Destroy(t.Context(), sess.Token))
		require.NoError(t, m.Destroy(t.Context(), ""))

		_, err = m.Resolve(t.Context(), sess.Token)
		require.ErrorIs(t, err, ErrNoSession)
	})
}
