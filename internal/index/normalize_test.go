package index_test

import (
	"testing"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/index"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and trims",
			input:    "  The Matrix  ",
			expected: "the matrix",
		},
		{
			name:     "strips punctuation",
			input:    "WALL·E: Don't Panic!",
			expected: "walle dont panic",
		},
		{
			name:     "collapses whitespace",
			input:    "the   empire\tstrikes  back",
			expected: "the empire strikes back",
		},
		{
			name:     "moves trailing The to front",
			input:    "Thing, The",
			expected: "the thing",
		},
		{
			name:     "moves trailing A to front",
			input:    "Beautiful Mind, A",
			expected: "a beautiful mind",
		},
		{
			name:     "moves trailing An to front",
			input:    "American Werewolf in London, An",
			expected: "an american werewolf in london",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := index.NormalizeTitle(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Thing, The",
		"The Thing",
		"Amélie",
		"2001: A Space Odyssey",
		"Se7en",
		"  ",
		"Good, the Bad and the Ugly, The",
	}
	for _, in := range inputs {
		once := index.NormalizeTitle(in)
		twice := index.NormalizeTitle(once)
		if once != twice {
			t.Errorf("NormalizeTitle not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestArticleSwapMatchesDirectForm(t *testing.T) {
	if index.NormalizeTitle("Thing, The") != index.NormalizeTitle("The Thing") {
		t.Error(`"Thing, The" and "The Thing" should normalize to the same key`)
	}
}

func TestTitleYearKey(t *testing.T) {
	if got := index.TitleYearKey("The Thing", 1982); got != "the thing::1982" {
		t.Errorf("TitleYearKey with year = %q, want %q", got, "the thing::1982")
	}
	if got := index.TitleYearKey("The Thing", 0); got != "the thing" {
		t.Errorf("TitleYearKey without year = %q, want %q", got, "the thing")
	}
}
