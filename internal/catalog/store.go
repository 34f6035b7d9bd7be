package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UserRecord is the per-user freshness document. All five fields round-trip
// through a sync cycle exactly as written.
type UserRecord struct {
	Username     string       `bson:"lb_username"`
	Ratings      []UserRating `bson:"ratings"`
	UpdatedAt    string       `bson:"updated_at"`
	FirstPageSig string       `bson:"first_page_sig"`
	RatingsCount int          `bson:"ratings_count"`
	Source       string       `bson:"source"`
}

// Store wraps the two Mongo collections the service uses: the movie catalog
// and the per-user cached ratings.
type Store struct {
	movies      *mongo.Collection
	userRatings *mongo.Collection
}

func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		movies:      db.Collection("Movie Data"),
		userRatings: db.Collection("UserRatings"),
	}
}

// Connect opens a Mongo client and verifies connectivity.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// catalogProjection keeps the bulk read small; both historical casings of
// every field are included so FromDocument can reconcile them.
var catalogProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: "Title", Value: 1}, {Key: "title", Value: 1},
	{Key: "Genres", Value: 1}, {Key: "genres", Value: 1},
	{Key: "Overview", Value: 1}, {Key: "overview", Value: 1}, {Key: "plot", Value: 1},
	{Key: "Average Score", Value: 1}, {Key: "average", Value: 1}, {Key: "vote_average", Value: 1},
	{Key: "Vote Count", Value: 1}, {Key: "votes", Value: 1}, {Key: "vote_count", Value: 1},
	{Key: "Year", Value: 1}, {Key: "year", Value: 1},
	{Key: "Poster", Value: 1}, {Key: "poster", Value: 1},
	{Key: "imdb_id", Value: 1},
}

// LoadCatalog reads every movie with at least minVotes votes. The filter
// matches whichever vote-count spelling a document carries.
func (s *Store) LoadCatalog(ctx context.Context, minVotes int) ([]Movie, error) {
	floor := bson.D{{Key: "$gte", Value: minVotes}}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "Vote Count", Value: floor}},
		bson.D{{Key: "votes", Value: floor}},
		bson.D{{Key: "vote_count", Value: floor}},
	}}}
	cursor, err := s.movies.Find(ctx, filter, options.Find().SetProjection(catalogProjection))
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []Movie
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding catalog document: %w", err)
		}
		movies = append(movies, FromDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("catalog cursor failed: %w", err)
	}
	return movies, nil
}

// FindMovieByTitle is the point lookup the scrape pipeline checks before
// calling the external metadata API.
func (s *Store) FindMovieByTitle(ctx context.Context, title string) (*Movie, error) {
	var doc bson.M
	err := s.movies.FindOne(ctx, bson.D{{Key: "title", Value: title}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("movie lookup failed: %w", err)
	}
	m := FromDocument(doc)
	return &m, nil
}

func (s *Store) FindMovieByIMDBID(ctx context.Context, imdbID string) (*Movie, error) {
	var doc bson.M
	err := s.movies.FindOne(ctx, bson.D{{Key: "imdb_id", Value: imdbID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("movie lookup failed: %w", err)
	}
	m := FromDocument(doc)
	return &m, nil
}

// UpsertMovie writes a movie keyed by title (the scrape path's natural key).
func (s *Store) UpsertMovie(ctx context.Context, m Movie) error {
	_, err := s.movies.UpdateOne(ctx,
		bson.D{{Key: "title", Value: m.Title}},
		bson.D{{Key: "$set", Value: m}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("movie upsert failed: %w", err)
	}
	return nil
}

// UpsertMovieByIMDBID writes a movie keyed by imdb id (the bulk-load key).
func (s *Store) UpsertMovieByIMDBID(ctx context.Context, m Movie) error {
	_, err := s.movies.UpdateOne(ctx,
		bson.D{{Key: "imdb_id", Value: m.IMDBID}},
		bson.D{{Key: "$set", Value: m}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("movie upsert failed: %w", err)
	}
	return nil
}

// GetUserRecord returns the cached ratings document, or nil when the user
// has never been synced.
func (s *Store) GetUserRecord(ctx context.Context, username string) (*UserRecord, error) {
	var rec UserRecord
	err := s.userRatings.FindOne(ctx, bson.D{{Key: "lb_username", Value: username}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user ratings lookup failed: %w", err)
	}
	return &rec, nil
}

// UpsertUserRatings replaces the cached rating list and its freshness fields
// in one write.
func (s *Store) UpsertUserRatings(ctx context.Context, username string, ratings []UserRating, firstPageSig string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.userRatings.UpdateOne(ctx,
		bson.D{{Key: "lb_username", Value: username}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "ratings", Value: ratings},
			{Key: "updated_at", Value: now},
			{Key: "first_page_sig", Value: firstPageSig},
			{Key: "ratings_count", Value: len(ratings)},
			{Key: "source", Value: "letterboxd"},
		}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("user ratings upsert failed: %w", err)
	}
	return nil
}
