package index_test

import (
	"errors"
	"testing"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/index"
)

func sampleCatalog() []catalog.Movie {
	return []catalog.Movie{
		{Title: "The Shawshank Redemption", Year: 1994, Genres: []string{"Drama"}, Average: 9.3, Votes: 2800000, Overview: "Two imprisoned men bond over a number of years."},
		{Title: "The Thing", Year: 1982, Genres: []string{"Horror", "Sci-Fi"}, Average: 8.2, Votes: 450000, Overview: "A research team in Antarctica is hunted by a shape-shifting alien."},
		{Title: "The Thing", Year: 2011, Genres: []string{"Horror"}, Average: 6.2, Votes: 110000, Overview: "Paleontologist Kate Lloyd joins a Norwegian team."},
		{Title: "Obscure Short", Year: 2020, Genres: []string{"Short"}, Average: 7.0, Votes: 12, Overview: "Barely voted on."},
	}
}

func TestBuildFiltersAndIndexes(t *testing.T) {
	idx, err := index.Build(sampleCatalog(), 100)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if idx.Len() != 3 {
		t.Fatalf("expected 3 rows after vote filter, got %d", idx.Len())
	}

	if _, ok := idx.LookupTitle("obscure short"); ok {
		t.Error("row below the vote floor should not be indexed")
	}

	row, ok := idx.LookupTitle("the shawshank redemption")
	if !ok {
		t.Fatal("exact lowercase lookup failed")
	}
	if got := idx.Row(row).Title; got != "The Shawshank Redemption" {
		t.Errorf("lookup returned wrong row: %q", got)
	}

	// Remakes share a title; the composite key tells them apart.
	original, ok := idx.LookupTitleYear("the thing::1982")
	if !ok {
		t.Fatal("title::year lookup failed for 1982 version")
	}
	remake, ok := idx.LookupTitleYear("the thing::2011")
	if !ok {
		t.Fatal("title::year lookup failed for 2011 version")
	}
	if original == remake {
		t.Error("remakes should map to distinct rows")
	}
}

func TestBuildDeduplicatesByTitleYear(t *testing.T) {
	movies := []catalog.Movie{
		{Title: "Heat", Year: 1995, Average: 8.3, Votes: 700000},
		{Title: "HEAT!", Year: 1995, Average: 1.0, Votes: 500},
	}
	idx, err := index.Build(movies, 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected colliding spellings to deduplicate, got %d rows", idx.Len())
	}
	if got := idx.Row(0).Votes; got != 700000 {
		t.Errorf("first occurrence should win, got row with %d votes", got)
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	_, err := index.Build(sampleCatalog(), 10000000)
	if !errors.Is(err, index.ErrCatalogEmpty) {
		t.Errorf("expected ErrCatalogEmpty, got %v", err)
	}

	_, err = index.Build(nil, 0)
	if !errors.Is(err, index.ErrCatalogEmpty) {
		t.Errorf("expected ErrCatalogEmpty for nil source, got %v", err)
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	a, err := index.Build(sampleCatalog(), 100)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := index.Build(sampleCatalog(), 100)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 0; i < a.Len(); i++ {
		if dot := a.Vector(i).Dot(b.Vector(i)); dot == 0 && len(a.Vector(i)) > 0 {
			t.Errorf("row %d vectors diverge between identical builds", i)
		}
		if len(a.Vector(i)) != len(b.Vector(i)) {
			t.Errorf("row %d vector sizes diverge between identical builds", i)
		}
	}
}
