package postgres

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmshelf/internal/storage"
)

func newStoreWithMock(t *testing.T) (*MovieStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewMovies(mock, slog.Default()), mock
}

func TestMovieStore_Sample(t *testing.T) {
	t.Parallel()

	t.Run("returns summaries", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		rows := pgxmock.NewRows([]string{"fid", "title", "release_year"}).
			AddRow(int32(7), "Airport Pollock", int32(2006)).
			AddRow(int32(12), "Alaska Phantom", int32(2006))
		mock.ExpectQuery(`SELECT fid, title, release_year FROM film_list ORDER BY random\(\) LIMIT \$1`).
			WithArgs(2).
			WillReturnRows(rows)

		movies, err := store.Sample(t.Context(), 2)
		require.NoError(t, err)
		require.Len(t, movies, 2)
		assert.Equal(t, "7", movies[0].ID)
		assert.Equal(t, "Airport Pollock", movies[0].Title)
		assert.Equal(t, int32(2006), movies[0].Year)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error is unavailable", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		mock.ExpectQuery(`SELECT fid, title, release_year FROM film_list ORDER BY random\(\) LIMIT \$1`).
			WithArgs(53).
			WillReturnError(errors.New("connection refused"))

		_, err := store.Sample(t.Context(), 53)
		require.ErrorIs(t, err, storage.ErrUnavailable)
	})
}

func TestMovieStore_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("returns detail", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		rows := pgxmock.NewRows([]string{
			"fid", "title", "description", "release_year", "category", "rating", "length", "actors",
		}).AddRow(
			int32(42), "Alien Center", "A brilliant drama of a cat", int32(2006),
			"Foreign", "NC-17", int32(46), "Kirsten Paltrow, Val Bolger",
		)
		mock.ExpectQuery(`SELECT fid, title, description, release_year, category, rating, length, actors FROM film_list WHERE fid = \$1`).
			WithArgs(int32(42)).
			WillReturnRows(rows)

		movie, err := store.GetByID(t.Context(), "42")
		require.NoError(t, err)
		assert.Equal(t, "42", movie.ID)
		assert.Equal(t, "Alien Center", movie.Title)
		assert.Equal(t, []string{"Foreign"}, movie.Genres)
		assert.Equal(t, []string{"Kirsten Paltrow", "Val Bolger"}, movie.Actors)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id never queries", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		for _, id := range []string{"", "abc", "12a", "573a1390f29313caabcd42e8"} {
			_, err := store.GetByID(t.Context(), id)
			require.ErrorIs(t, err, storage.ErrInvalidID, "id %q", id)
		}
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows is not found", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		mock.ExpectQuery(`SELECT fid, title, description, release_year, category, rating, length, actors FROM film_list WHERE fid = \$1`).
			WithArgs(int32(9999)).
			WillReturnRows(pgxmock.NewRows([]string{
				"fid", "title", "description", "release_year", "category", "rating", "length", "actors",
			}))

		_, err := store.GetByID(t.Context(), "9999")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("query error is unavailable", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		mock.ExpectQuery(`SELECT fid, title, description, release_year, category, rating, length, actors FROM film_list WHERE fid = \$1`).
			WithArgs(int32(1)).
			WillReturnError(errors.New("server closed the connection"))

		_, err := store.GetByID(t.Context(), "1")
		require.ErrorIs(t, err, storage.ErrUnavailable)
	})
}

func TestMovieStore_SearchByTitle(t *testing.T) {
	t.Parallel()

	t.Run("case-insensitive substring match", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		rows := pgxmock.NewRows([]string{"fid", "title", "release_year"}).
			AddRow(int32(3), "Adaptation Holes", int32(2006))
		mock.ExpectQuery(`SELECT fid, title, release_year FROM film_list WHERE title ILIKE \$1 LIMIT \$2`).
			WithArgs("%holes%", searchLimit).
			WillReturnRows(rows)

		movies, err := store.SearchByTitle(t.Context(), "holes")
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "Adaptation Holes", movies[0].Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matches is an empty slice", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		mock.ExpectQuery(`SELECT fid, title, release_year FROM film_list WHERE title ILIKE \$1 LIMIT \$2`).
			WithArgs("%zzz%", searchLimit).
			WillReturnRows(pgxmock.NewRows([]string{"fid", "title", "release_year"}))

		movies, err := store.SearchByTitle(t.Context(), "zzz")
		require.NoError(t, err)
		assert.Empty(t, movies)
	})

	t.Run("query error is unavailable", func(t *testing.T) {
		t.Parallel()
		store, mock := newStoreWithMock(t)

		mock.ExpectQuery(`SELECT fid, title, release_year FROM film_list WHERE title ILIKE \$1 LIMIT \$2`).
			WithArgs("%x%", searchLimit).
			WillReturnError(errors.New("timeout"))

		_, err := store.SearchByTitle(t.Context(), "x")
		require.ErrorIs(t, err, storage.ErrUnavailable)
	})
}
