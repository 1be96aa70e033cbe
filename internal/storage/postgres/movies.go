package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"filmshelf/internal/storage"
)

// searchLimit bounds title search results, matching the original substring
// search page size.
const searchLimit = 38

const (
	sampleQuery = `SELECT fid, title, release_year FROM film_list ORDER BY random() LIMIT $1`
	detailQuery = `SELECT fid, title, description, release_year, category, rating, length, actors FROM film_list WHERE fid = $1`
	searchQuery = `SELECT fid, title, release_year FROM film_list WHERE title ILIKE $1 LIMIT $2`
)

// MovieStore is a [storage.Movies] backed by the film_list view.
type MovieStore struct {
	db     Querier
	logger *slog.Logger
}

// NewMovies returns the relational movie adapter.
func NewMovies(db Querier, logger *slog.Logger) *MovieStore {
	return &MovieStore{
		db:     db,
		logger: logger.With(slog.String("store", "postgres")),
	}
}

// Sample satisfies the [storage.Movies] interface.
func (s *MovieStore) Sample(ctx context.Context, n int) ([]storage.Movie, error) {
	rows, err := s.db.Query(ctx, sampleQuery, n)
	if err != nil {
		s.logger.ErrorContext(ctx, "film sample failed", slog.Any("error", err))
		return nil, storage.ErrUnavailable
	}
	return s.collectSummaries(ctx, rows)
}

// GetByID satisfies the [storage.Movies] interface. The id must be the
// numeric film key; anything else is rejected before querying.
func (s *MovieStore) GetByID(ctx context.Context, id string) (storage.Movie, error) {
	fid, err := strconv.ParseInt(id, 10, 32)
	if err != nil {
		return storage.Movie{}, storage.ErrInvalidID
	}

	var (
		movie    storage.Movie
		fidValue int32
		category string
		actors   string
	)
	err = s.db.QueryRow(ctx, detailQuery, int32(fid)).Scan(
		&fidValue,
		&movie.Title,
		&movie.Plot,
		&movie.Year,
		&category,
		&movie.Rated,
		&movie.Runtime,
		&actors,
	)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return storage.Movie{}, storage.ErrNotFound
	case err != nil:
		s.logger.ErrorContext(ctx, "film lookup failed", slog.Any("error", err))
		return storage.Movie{}, storage.ErrUnavailable
	}

	movie.ID = strconv.FormatInt(int64(fidValue), 10)
	if category != "" {
		movie.Genres = []string{category}
	}
	if actors != "" {
		movie.Actors = strings.Split(actors, ", ")
	}
	return movie, nil
}

// SearchByTitle satisfies the [storage.Movies] interface with
// case-insensitive substring matching.
func (s *MovieStore) SearchByTitle(ctx context.Context, query string) ([]storage.Movie, error) {
	rows, err := s.db.Query(ctx, searchQuery, "%"+query+"%", searchLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "film search failed", slog.Any("error", err))
		return nil, storage.ErrUnavailable
	}
	return s.collectSummaries(ctx, rows)
}

func (s *MovieStore) collectSummaries(ctx context.Context, rows pgx.Rows) ([]storage.Movie, error) {
	defer rows.Close()

	movies := make([]storage.Movie, 0)
	for rows.Next() {
		var (
			fid   int32
			movie storage.Movie
		)
		if err := rows.Scan(&fid, &movie.Title, &movie.Year); err != nil {
			s.logger.ErrorContext(ctx, "film row scan failed", slog.Any("error", err))
			return nil, storage.ErrUnavailable
		}
		movie.ID = strconv.FormatInt(int64(fid), 10)
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		s.logger.ErrorContext(ctx, "film rows failed", slog.Any("error", err))
		return nil, storage.ErrUnavailable
	}
	return movies, nil
}

var _ storage.Movies = (*MovieStore)(nil)
