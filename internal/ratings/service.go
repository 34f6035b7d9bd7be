package ratings

import (
	"context"
	"fmt"
	"log"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/scrape"
)

// Store is the cached-ratings side of the document store.
type Store interface {
	GetUserRecord(ctx context.Context, username string) (*catalog.UserRecord, error)
	UpsertUserRatings(ctx context.Context, username string, ratings []catalog.UserRating, firstPageSig string) error
}

// Scraper is the fetch pipeline the guard falls back to when the cache
// cannot be trusted.
type Scraper interface {
	ScrapeUser(ctx context.Context, username string) ([]catalog.UserRating, error)
	FirstPagePairs(ctx context.Context, username string) ([]scrape.RatedFilm, error)
}

// Service decides whether a user's cached ratings are still trustworthy.
// The cheap path fingerprints only page 1; any failure of that check is
// read as "stale", never as "fresh".
type Service struct {
	store   Store
	scraper Scraper
}

func NewService(store Store, scraper Scraper) *Service {
	return &Service{store: store, scraper: scraper}
}

// Cached returns the stored rating list without any freshness check, or nil
// when the user has never been synced.
func (s *Service) Cached(ctx context.Context, username string) ([]catalog.UserRating, error) {
	rec, err := s.store.GetUserRecord(ctx, username)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return rec.Ratings, nil
}

// GetRatingsOrSync returns the user's ratings, reusing the cache when the
// page-1 fingerprint still matches and resyncing otherwise. An unknown user
// yields an empty list, not an error.
func (s *Service) GetRatingsOrSync(ctx context.Context, username string, force bool) ([]catalog.UserRating, error) {
	cached, err := s.store.GetUserRecord(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("reading cached ratings for %q: %w", username, err)
	}

	if cached != nil && !force {
		pairs, err := s.scraper.FirstPagePairs(ctx, username)
		if err != nil {
			log.Printf("[Light check] failed for user=%s: %v; refreshing", username, err)
		} else {
			sig := Fingerprint(pairs)
			if sig == cached.FirstPageSig {
				log.Printf("[Light check] no change detected for user=%s; using cache", username)
				return cached.Ratings, nil
			}
			log.Printf("[Light check] change detected for user=%s: %s -> %s; refreshing",
				username, cached.FirstPageSig, sig)
		}
	}

	movies, err := s.scraper.ScrapeUser(ctx, username)
	if err != nil {
		log.Printf("[Scrape] failed for user=%s: %v", username, err)
		if cached != nil {
			return cached.Ratings, nil
		}
		return nil, fmt.Errorf("scraping ratings for %q: %w", username, err)
	}
	if len(movies) == 0 {
		// An empty resync must not erase valid history: an invalid
		// username upstream looks exactly like a wiped profile.
		log.Printf("[Scrape] no movies for user=%s; keeping cached ratings", username)
		if cached != nil {
			return cached.Ratings, nil
		}
		return nil, nil
	}

	sig := ""
	if pairs, err := s.scraper.FirstPagePairs(ctx, username); err != nil {
		// An empty signature never matches, so the next request resyncs.
		log.Printf("[Light check] post-sync fingerprint failed for user=%s: %v", username, err)
	} else {
		sig = Fingerprint(pairs)
	}

	if err := s.store.UpsertUserRatings(ctx, username, movies, sig); err != nil {
		log.Printf("[UserRatings upsert] failed for user=%s: %v", username, err)
	} else {
		log.Printf("[UserRatings upsert] user=%s ratings_count=%d sig=%s", username, len(movies), sig)
	}
	return movies, nil
}
