package ratings_test

import (
	"regexp"
	"testing"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/ratings"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/scrape"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestFingerprintDeterministic(t *testing.T) {
	pairs := []scrape.RatedFilm{
		{Title: "Heat", Rating: 9},
		{Title: "The Thing", Rating: 8},
	}
	a := ratings.Fingerprint(pairs)
	b := ratings.Fingerprint(pairs)
	if a != b {
		t.Errorf("same pairs produced %s and %s", a, b)
	}
	if !hexRe.MatchString(a) {
		t.Errorf("fingerprint %q is not 8 lowercase hex digits", a)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := ratings.Fingerprint([]scrape.RatedFilm{
		{Title: "Heat", Rating: 9},
		{Title: "The Thing", Rating: 8},
	})

	tests := []struct {
		name  string
		pairs []scrape.RatedFilm
	}{
		{
			name: "rating changed",
			pairs: []scrape.RatedFilm{
				{Title: "Heat", Rating: 7},
				{Title: "The Thing", Rating: 8},
			},
		},
		{
			name: "order changed",
			pairs: []scrape.RatedFilm{
				{Title: "The Thing", Rating: 8},
				{Title: "Heat", Rating: 9},
			},
		},
		{
			name: "entry removed",
			pairs: []scrape.RatedFilm{
				{Title: "Heat", Rating: 9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ratings.Fingerprint(tt.pairs); got == base {
				t.Errorf("%s should change the fingerprint", tt.name)
			}
		})
	}
}

func TestFingerprintEmpty(t *testing.T) {
	got := ratings.Fingerprint(nil)
	if !hexRe.MatchString(got) {
		t.Errorf("empty page still needs a well-formed fingerprint, got %q", got)
	}
}
