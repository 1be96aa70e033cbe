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

// searchLimit bounds title search results, matching the original fuzzy
// search page size.
const searchLimit = 54

// maxFuzzyEdits is the bounded edit distance for autocomplete matching.
const maxFuzzyEdits = 2

// MovieStore is a [storage.Movies] backed by the movies collection. Title
// search uses the Atlas Search autocomplete index on the title field.
type MovieStore struct {
	movies *mongo.Collection
	logger *slog.Logger
}

// NewMovies returns the document-store movie adapter for an open connection.
func NewMovies(conn *Conn) *MovieStore {
	return &MovieStore{
		movies: conn.db.Collection(moviesCollection),
		logger: conn.logger,
	}
}

type movieDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Year    int32              `bson:"year"`
	Plot    string             `bson:"plot"`
	Rated   string             `bson:"rated"`
	Runtime int32              `bson:"runtime"`
	Genres  []string           `bson:"genres"`
	Cast    []string           `bson:"cast"`
}

func (d movieDoc) toMovie() storage.Movie {
	return storage.Movie{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Year:    d.Year,
		Plot:    d.Plot,
		Rated:   d.Rated,
		Runtime: d.Runtime,
		Genres:  d.Genres,
		Actors:  d.Cast,
	}
}

// Sample satisfies the [storage.Movies] interface using a $sample
// aggregation.
func (s *MovieStore) Sample(ctx context.Context, n int) ([]storage.Movie, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
	}
	return s.aggregate(ctx, pipeline)
}

// GetByID satisfies the [storage.Movies] interface. The id must be a valid
// ObjectID hex string; malformed input never reaches the store.
func (s *MovieStore) GetByID(ctx context.Context, id string) (storage.Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.Movie{}, storage.ErrInvalidID
	}

	var doc movieDoc
	err = s.movies.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.Movie{}, storage.ErrNotFound
	case err != nil:
		s.logger.ErrorContext(ctx, "movie lookup failed", slog.Any("error", err))
		return storage.Movie{}, storage.ErrUnavailable
	}
	return doc.toMovie(), nil
}

// SearchByTitle satisfies the [storage.Movies] interface with fuzzy
// prefix/autocomplete semantics and a bounded edit distance.
func (s *MovieStore) SearchByTitle(ctx context.Context, query string) ([]storage.Movie, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "autocomplete", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: "title"},
				{Key: "fuzzy", Value: bson.D{{Key: "maxEdits", Value: maxFuzzyEdits}}},
			}},
		}}},
		{{Key: "$limit", Value: searchLimit}},
	}
	return s.aggregate(ctx, pipeline)
}

func (s *MovieStore) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]storage.Movie, error) {
	cursor, err := s.movies.Aggregate(ctx, pipeline)
	if err != nil {
		s.logger.ErrorContext(ctx, "movie aggregation failed", slog.Any("error", err))
		return nil, storage.ErrUnavailable
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []movieDoc
	if err = cursor.All(ctx, &docs); err != nil {
		s.logger.ErrorContext(ctx, "movie cursor drain failed", slog.Any("error", err))
		return nil, storage.ErrUnavailable
	}

	movies := make([]storage.Movie, 0, len(docs))
	for _, doc := range docs {
		movies = append(movies, doc.toMovie())
	}
	return movies, nil
}

var _ storage.Movies = (*MovieStore)(nil)
