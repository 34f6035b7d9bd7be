package scrape

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
)

const defaultTitleAPIBase = "https://api.imdbapi.dev/titles/"

// MetadataStore is the subset of the document store the metadata lookup
// needs: a point read by title and an upsert for freshly fetched records.
type MetadataStore interface {
	FindMovieByTitle(ctx context.Context, title string) (*catalog.Movie, error)
	UpsertMovie(ctx context.Context, m catalog.Movie) error
}

// MetadataClient resolves a scraped title to a full catalog record,
// store-first: only cache misses reach the film page and the title API.
type MetadataClient struct {
	fetcher *Fetcher
	store   MetadataStore
	apiBase string
}

func NewMetadataClient(fetcher *Fetcher, store MetadataStore) *MetadataClient {
	return &MetadataClient{fetcher: fetcher, store: store, apiBase: defaultTitleAPIBase}
}

// titleRecord mirrors the title API's response shape.
type titleRecord struct {
	Type         string `json:"type"`
	PrimaryTitle string `json:"primaryTitle"`
	PrimaryImage struct {
		URL string `json:"url"`
	} `json:"primaryImage"`
	StartYear int      `json:"startYear"`
	Genres    []string `json:"genres"`
	Rating    struct {
		AggregateRating float64 `json:"aggregateRating"`
		VoteCount       int     `json:"voteCount"`
	} `json:"rating"`
	Plot string `json:"plot"`
}

// Lookup returns the catalog record for a film, fetching and persisting it
// when the store has no entry. filmURL is the film's Letterboxd detail page.
func (c *MetadataClient) Lookup(ctx context.Context, title, filmURL string) (*catalog.Movie, error) {
	existing, err := c.store.FindMovieByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	filmHTML, err := c.fetcher.FetchHTML(ctx, filmURL)
	if err != nil {
		return nil, fmt.Errorf("film page fetch failed for %q: %w", title, err)
	}
	imdbID, err := ParseIMDBID(filmHTML)
	if err != nil {
		return nil, fmt.Errorf("film page for %q: %w", title, err)
	}

	movie, err := c.FetchByIMDBID(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	// Keyed by the scraped title, so the next lookup for this exact
	// spelling is a store hit.
	cached := *movie
	cached.Title = title
	if err := c.store.UpsertMovie(ctx, cached); err != nil {
		return nil, err
	}
	return movie, nil
}

// FetchByIMDBID hits the title API directly; the bulk loader uses this path
// with ids taken from CSV rather than from film pages.
func (c *MetadataClient) FetchByIMDBID(ctx context.Context, imdbID string) (*catalog.Movie, error) {
	body, err := c.fetcher.FetchHTML(ctx, c.apiBase+imdbID)
	if err != nil {
		return nil, fmt.Errorf("title API fetch failed for %s: %w", imdbID, err)
	}
	var rec titleRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("title API response for %s: %w", imdbID, err)
	}
	if rec.PrimaryTitle == "" {
		return nil, fmt.Errorf("title API has no record for %s", imdbID)
	}
	return &catalog.Movie{
		IMDBID:   imdbID,
		Title:    rec.PrimaryTitle,
		Year:     rec.StartYear,
		Genres:   rec.Genres,
		Average:  rec.Rating.AggregateRating,
		Votes:    rec.Rating.VoteCount,
		Overview: rec.Plot,
		Poster:   rec.PrimaryImage.URL,
	}, nil
}
