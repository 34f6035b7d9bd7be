package recommend

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/index"
)

// resolveTitle maps a scraped (title, year) to a catalog row. Tiers, first
// match wins: composite title::year key, exact lowercase, normalized title,
// then fuzzy best-candidate against the title keys.
func resolveTitle(idx *index.Index, title string, year int, fuzzyCutoff float64) (int, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, false
	}

	if row, ok := idx.LookupTitleYear(index.TitleYearKey(title, year)); ok {
		return row, true
	}
	if row, ok := idx.LookupTitle(strings.ToLower(title)); ok {
		return row, true
	}
	norm := index.NormalizeTitle(title)
	if row, ok := idx.LookupTitle(norm); ok {
		return row, true
	}

	target := norm
	if target == "" {
		target = strings.ToLower(title)
	}
	best := ""
	bestRatio := 0.0
	for _, key := range idx.TitleKeys() {
		if r := similarityRatio(target, key); r > bestRatio {
			best, bestRatio = key, r
		}
	}
	if best != "" && bestRatio >= fuzzyCutoff {
		return mustLookup(idx, best), true
	}
	return 0, false
}

func mustLookup(idx *index.Index, key string) int {
	row, _ := idx.LookupTitle(key)
	return row
}

// similarityRatio is a [0,1] similarity from edit distance over rune length.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Resolve runs every rated entry through the tier list and returns the
// matched rows alongside their source entries, in input order. Unresolved
// entries are dropped; the caller can diff lengths for diagnostics.
func Resolve(idx *index.Index, ratings []catalog.UserRating, fuzzyCutoff float64) (rows []int, matched []catalog.UserRating) {
	for _, r := range ratings {
		if row, ok := resolveTitle(idx, r.Title, r.Year, fuzzyCutoff); ok {
			rows = append(rows, row)
			matched = append(matched, r)
		}
	}
	return rows, matched
}
