package scrape

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
)

// Scraper walks a user's rated-films pages and enriches each entry with
// catalog metadata. Page fetches run concurrently but the shared Fetcher
// gate bounds how many are in flight.
type Scraper struct {
	fetcher  *Fetcher
	metadata *MetadataClient

	// BaseURL is overridable so tests can point at a local server.
	BaseURL string
}

func NewScraper(fetcher *Fetcher, metadata *MetadataClient) *Scraper {
	return &Scraper{
		fetcher:  fetcher,
		metadata: metadata,
		BaseURL:  "https://letterboxd.com",
	}
}

func (s *Scraper) filmsPageURL(username string, page int) string {
	return fmt.Sprintf("%s/%s/films/page/%d/", s.BaseURL, username, page)
}

// PageCount fetches the user's films listing and reads its pagination.
// A nonexistent user reports zero pages.
func (s *Scraper) PageCount(ctx context.Context, username string) (int, error) {
	html, err := s.fetcher.FetchHTML(ctx, fmt.Sprintf("%s/%s/films/", s.BaseURL, username))
	if err != nil {
		return 0, err
	}
	return ParsePageCount(html)
}

// FirstPagePairs scrapes only page 1 and returns its rated entries in page
// order, unrated films excluded. The freshness check fingerprints these.
func (s *Scraper) FirstPagePairs(ctx context.Context, username string) ([]RatedFilm, error) {
	html, err := s.fetcher.FetchHTML(ctx, s.filmsPageURL(username, 1))
	if err != nil {
		return nil, err
	}
	films, err := ParseFilmsPage(html)
	if err != nil {
		return nil, err
	}
	rated := make([]RatedFilm, 0, len(films))
	for _, f := range films {
		if f.Rating > 0 {
			rated = append(rated, f)
		}
	}
	return rated, nil
}

// ScrapeUser fetches every films page concurrently, merges them in page
// order with first title occurrence winning, then enriches the merged set
// with metadata as one concurrent batch. A failed page or a failed metadata
// lookup degrades the result, never aborts it.
func (s *Scraper) ScrapeUser(ctx context.Context, username string) ([]catalog.UserRating, error) {
	total, err := s.PageCount(ctx, username)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		log.Printf("[Scrape] user %q not found or has no films", username)
		return nil, nil
	}

	pages := make([][]RatedFilm, total)
	g, gctx := errgroup.WithContext(ctx)
	for p := 1; p <= total; p++ {
		page := p
		g.Go(func() error {
			html, err := s.fetcher.FetchHTML(gctx, s.filmsPageURL(username, page))
			if err != nil {
				log.Printf("[Scrape] page %d of %q failed: %v", page, username, err)
				return nil
			}
			films, err := ParseFilmsPage(html)
			if err != nil {
				log.Printf("[Scrape] page %d of %q unreadable: %v", page, username, err)
				return nil
			}
			pages[page-1] = films
			return nil
		})
	}
	g.Wait()

	seen := make(map[string]bool)
	var entries []catalog.UserRating
	var links []string
	for _, films := range pages {
		for _, f := range films {
			if seen[f.Title] {
				continue
			}
			seen[f.Title] = true
			entries = append(entries, catalog.UserRating{Title: f.Title, UserRating: f.Rating})
			links = append(links, s.BaseURL+f.Link)
		}
	}

	mg, mctx := errgroup.WithContext(ctx)
	for i := range entries {
		i := i
		mg.Go(func() error {
			movie, err := s.metadata.Lookup(mctx, entries[i].Title, links[i])
			if err != nil {
				log.Printf("[Scrape] metadata for %q failed: %v", entries[i].Title, err)
				return nil
			}
			applyMetadata(&entries[i], movie)
			return nil
		})
	}
	mg.Wait()

	return entries, nil
}

// applyMetadata copies the catalog record onto a scraped entry. The
// canonical title replaces the display title so resolution downstream sees
// the same spelling the catalog does.
func applyMetadata(e *catalog.UserRating, m *catalog.Movie) {
	if m.Title != "" {
		e.Title = m.Title
	}
	e.IMDBID = m.IMDBID
	e.Year = m.Year
	e.Genres = m.Genres
	e.Average = m.Average
	e.Votes = m.Votes
	e.Poster = m.Poster
	e.Overview = m.Overview
}
