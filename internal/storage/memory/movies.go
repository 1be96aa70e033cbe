package memory

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"filmshelf/internal/storage"
)

const searchLimit = 38

// IDFormat selects the id scheme a MovieStore mimics, so dev mode can stand
// in for either backend.
type IDFormat int

const (
	// NumericIDs mimic the relational film key.
	NumericIDs IDFormat = iota
	// ObjectIDs mimic the document store's 24-hex identifiers.
	ObjectIDs
)

// MovieStore is an in-process [storage.Movies] holding a fixed corpus.
type MovieStore struct {
	mu     sync.Mutex
	rand   *rand.Rand
	format IDFormat
	order  []string
	byID   map[string]storage.Movie
}

// NewMovies generates a fake corpus of size movies from the given seed.
func NewMovies(seed uint64, size int, format IDFormat) *MovieStore {
	faker := gofakeit.New(seed)
	s := &MovieStore{
		rand:   rand.New(rand.NewPCG(seed, seed)), //nolint:gosec // sampling, not crypto
		format: format,
		byID:   make(map[string]storage.Movie, size),
	}
	for i := range size {
		info := faker.Movie()
		movie := storage.Movie{
			ID:      s.newID(i),
			Title:   info.Name,
			Year:    int32(faker.Number(1950, 2023)),
			Plot:    faker.Sentence(12),
			Rated:   faker.RandomString([]string{"G", "PG", "PG-13", "R"}),
			Runtime: int32(faker.Number(70, 190)),
			Genres:  []string{info.Genre},
			Actors:  []string{faker.Name(), faker.Name(), faker.Name()},
		}
		s.order = append(s.order, movie.ID)
		s.byID[movie.ID] = movie
	}
	return s
}

func (s *MovieStore) newID(i int) string {
	if s.format == ObjectIDs {
		return primitive.NewObjectID().Hex()
	}
	return strconv.Itoa(i + 1)
}

func (s *MovieStore) validateID(id string) error {
	if s.format == ObjectIDs {
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			return storage.ErrInvalidID
		}
		return nil
	}
	if _, err := strconv.ParseInt(id, 10, 32); err != nil {
		return storage.ErrInvalidID
	}
	return nil
}

// Sample satisfies the [storage.Movies] interface.
func (s *MovieStore) Sample(_ context.Context, n int) ([]storage.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	s.rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if n > len(ids) {
		n = len(ids)
	}

	movies := make([]storage.Movie, 0, n)
	for _, id := range ids[:n] {
		movies = append(movies, s.byID[id])
	}
	return movies, nil
}

// GetByID satisfies the [storage.Movies] interface.
func (s *MovieStore) GetByID(_ context.Context, id string) (storage.Movie, error) {
	if err := s.validateID(id); err != nil {
		return storage.Movie{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	movie, ok := s.byID[id]
	if !ok {
		return storage.Movie{}, storage.ErrNotFound
	}
	return movie, nil
}

// SearchByTitle satisfies the [storage.Movies] interface with
// case-insensitive substring matching, like the relational backend.
func (s *MovieStore) SearchByTitle(_ context.Context, query string) ([]storage.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	movies := make([]storage.Movie, 0)
	for _, id := range s.order {
		movie := s.byID[id]
		if strings.Contains(strings.ToLower(movie.Title), needle) {
			movies = append(movies, movie)
			if len(movies) == searchLimit {
				break
			}
		}
	}
	return movies, nil
}

var _ storage.Movies = (*MovieStore)(nil)
