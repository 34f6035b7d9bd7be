package scrape_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/scrape"
)

type fakeMetadataStore struct {
	mu     sync.Mutex
	movies map[string]catalog.Movie
}

func (f *fakeMetadataStore) FindMovieByTitle(_ context.Context, title string) (*catalog.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.movies[title]; ok {
		return &m, nil
	}
	return nil, nil
}

func (f *fakeMetadataStore) UpsertMovie(_ context.Context, m catalog.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies[m.Title] = m
	return nil
}

func gridItem(title string, rating int, link string) string {
	ratingSpan := ""
	if rating > 0 {
		ratingSpan = fmt.Sprintf(`<span class="rating rated-%d"></span>`, rating)
	}
	return fmt.Sprintf(`<li class="griditem">
		<div class="react-component" data-item-link=%q></div>
		<img alt=%q>%s</li>`, link, title, ratingSpan)
}

func newletterboxdStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/alice/films/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<ul><li class="paginate-page"><a>1</a></li>
			<li class="paginate-page"><a>2</a></li></ul>
		</body></html>`)
	})
	mux.HandleFunc("/alice/films/page/1/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><ul class="grid">%s%s%s</ul></body></html>`,
			gridItem("Zodiac", 8, "/film/zodiac/"),
			gridItem("Heat", 9, "/film/heat-1995/"),
			gridItem("Unwatched Pick", 0, "/film/unwatched/"),
		)
	})
	mux.HandleFunc("/alice/films/page/2/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><ul class="grid">%s%s</ul></body></html>`,
			gridItem("Heat", 3, "/film/heat-1995/"), // later duplicate, ignored
			gridItem("The Thing", 7, "/film/the-thing/"),
		)
	})
	mux.HandleFunc("/ghost/films/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<html><body class="error"><h1>Not found</h1></body></html>`)
	})
	return httptest.NewServer(mux)
}

func newTestScraper(server *httptest.Server, store *fakeMetadataStore) *scrape.Scraper {
	fetcher := scrape.NewFetcher("ReelHotTakesBot/test", 4)
	metadata := scrape.NewMetadataClient(fetcher, store)
	scraper := scrape.NewScraper(fetcher, metadata)
	scraper.BaseURL = server.URL
	return scraper
}

func TestScrapeUserMergesPagesInOrder(t *testing.T) {
	server := newletterboxdStub(t)
	defer server.Close()

	store := &fakeMetadataStore{movies: map[string]catalog.Movie{
		"Zodiac":    {Title: "Zodiac", Year: 2007, Average: 7.7, Votes: 550000, Poster: "zodiac.jpg"},
		"Heat":      {Title: "Heat", Year: 1995, Average: 8.3, Votes: 700000},
		"The Thing": {Title: "The Thing", Year: 1982, Average: 8.2, Votes: 450000},
	}}
	scraper := newTestScraper(server, store)

	entries, err := scraper.ScrapeUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ScrapeUser failed: %v", err)
	}

	wantOrder := []string{"Zodiac", "Heat", "Unwatched Pick", "The Thing"}
	if len(entries) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %d: %+v", len(wantOrder), len(entries), entries)
	}
	for i, want := range wantOrder {
		if entries[i].Title != want {
			t.Errorf("entry %d = %q, want %q", i, entries[i].Title, want)
		}
	}

	// First occurrence wins: Heat keeps its page-1 rating.
	if entries[1].UserRating != 9 {
		t.Errorf("duplicate on a later page must not override, got rating %d", entries[1].UserRating)
	}
	// Metadata from the store is applied.
	if entries[0].Year != 2007 || entries[0].Poster != "zodiac.jpg" {
		t.Errorf("metadata not applied: %+v", entries[0])
	}
	// A metadata miss leaves the scraped defaults in place.
	if entries[2].UserRating != 0 || entries[2].Year != 0 {
		t.Errorf("unenriched entry should keep defaults: %+v", entries[2])
	}
}

func TestScrapeUserUnknownUser(t *testing.T) {
	server := newletterboxdStub(t)
	defer server.Close()

	store := &fakeMetadataStore{movies: map[string]catalog.Movie{}}
	scraper := newTestScraper(server, store)

	entries, err := scraper.ScrapeUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("unknown user must not error, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries for unknown user, got %+v", entries)
	}
}

func TestFirstPagePairsSkipsUnrated(t *testing.T) {
	server := newletterboxdStub(t)
	defer server.Close()

	store := &fakeMetadataStore{movies: map[string]catalog.Movie{}}
	scraper := newTestScraper(server, store)

	pairs, err := scraper.FirstPagePairs(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FirstPagePairs failed: %v", err)
	}
	want := []scrape.RatedFilm{
		{Title: "Zodiac", Rating: 8, Link: "/film/zodiac/"},
		{Title: "Heat", Rating: 9, Link: "/film/heat-1995/"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d rated pairs, got %+v", len(want), pairs)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pair %d = %+v, want %+v", i, pairs[i], want[i])
		}
	}
}

func TestPageCount(t *testing.T) {
	server := newletterboxdStub(t)
	defer server.Close()

	store := &fakeMetadataStore{movies: map[string]catalog.Movie{}}
	scraper := newTestScraper(server, store)

	count, err := scraper.PageCount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("PageCount = %d, want 2", count)
	}

	count, err = scraper.PageCount(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("PageCount for unknown user = %d, want 0", count)
	}
}
