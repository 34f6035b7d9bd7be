package index

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
)

// ErrCatalogEmpty is returned when no catalog row passes the vote filter.
var ErrCatalogEmpty = errors.New("catalog query returned 0 admissible rows")

// numericCols is the count of scaled numeric features appended after the
// text columns: average rating, vote count, year.
const numericCols = 3

// Index is the catalog's feature matrix plus the title lookup tables.
// It is immutable once built; callers swap in a fresh Index wholesale.
type Index struct {
	rows        []catalog.Movie
	features    []SparseVector
	byTitle     map[string]int // exact-lowercase and normalized titles
	byTitleYear map[string]int // "normalized title::year"
	titleKeys   []string       // sorted byTitle keys, for the fuzzy tier
	numBase     int            // column offset of the numeric features
}

// Build constructs the index from scratch. Rows below minVotes are not
// admitted; rows colliding on (normalized title, year) keep the first
// occurrence.
func Build(source []catalog.Movie, minVotes int) (*Index, error) {
	idx := &Index{
		byTitle:     make(map[string]int),
		byTitleYear: make(map[string]int),
	}

	seen := make(map[string]bool)
	for _, m := range source {
		if m.Votes < minVotes {
			continue
		}
		key := TitleYearKey(m.Title, m.Year)
		if seen[key] {
			continue
		}
		seen[key] = true
		idx.rows = append(idx.rows, m)
	}
	if len(idx.rows) == 0 {
		return nil, ErrCatalogEmpty
	}

	for i, m := range idx.rows {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			continue
		}
		idx.byTitle[strings.ToLower(title)] = i
		norm := NormalizeTitle(title)
		if _, ok := idx.byTitle[norm]; !ok {
			idx.byTitle[norm] = i
		}
		idx.byTitleYear[TitleYearKey(title, m.Year)] = i
	}
	idx.titleKeys = make([]string, 0, len(idx.byTitle))
	for k := range idx.byTitle {
		idx.titleKeys = append(idx.titleKeys, k)
	}
	sort.Strings(idx.titleKeys)

	corpus := make([]string, len(idx.rows))
	for i, m := range idx.rows {
		corpus[i] = featureText(m)
	}
	vectorizer := NewVectorizer()
	idx.features = vectorizer.Fit(corpus)
	idx.numBase = vectorizer.NumTerms()
	idx.appendNumericFeatures()

	return idx, nil
}

// featureText assembles the text the vectorizer sees for one row. Numeric
// fields are rendered as tokens too, so exact numeric coincidences add weak
// textual signal on top of the scaled numeric columns.
func featureText(m catalog.Movie) string {
	parts := []string{
		m.Title,
		strings.Join(m.Genres, " "),
		m.Overview,
		formatFloat(m.Average),
		formatInt(m.Votes),
		formatInt(m.Year),
	}
	fields := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			fields = append(fields, strings.TrimSpace(p))
		}
	}
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.Join(fields, " ")
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// appendNumericFeatures standardizes (avg, votes, year) to zero mean and
// unit variance, each column independently, and concatenates them after the
// text columns.
func (idx *Index) appendNumericFeatures() {
	n := len(idx.rows)
	cols := [numericCols][]float64{}
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	for i, m := range idx.rows {
		cols[0][i] = m.Average
		cols[1][i] = float64(m.Votes)
		cols[2][i] = float64(m.Year)
	}
	for j, col := range cols {
		mean := stat.Mean(col, nil)
		std := stat.StdDev(col, nil)
		if n < 2 || std == 0 || std != std {
			std = 1
		}
		for i, x := range col {
			idx.features[i][idx.numBase+j] = (x - mean) / std
		}
	}
}

func (idx *Index) Len() int { return len(idx.rows) }

func (idx *Index) Row(i int) catalog.Movie { return idx.rows[i] }

func (idx *Index) Vector(i int) SparseVector { return idx.features[i] }

// LookupTitle matches an exact-lowercase or normalized title.
func (idx *Index) LookupTitle(key string) (int, bool) {
	i, ok := idx.byTitle[key]
	return i, ok
}

// LookupTitleYear matches the composite "normalized title::year" key.
func (idx *Index) LookupTitleYear(key string) (int, bool) {
	i, ok := idx.byTitleYear[key]
	return i, ok
}

// TitleKeys returns every title lookup key in sorted order; the fuzzy
// resolution tier scans these.
func (idx *Index) TitleKeys() []string { return idx.titleKeys }
