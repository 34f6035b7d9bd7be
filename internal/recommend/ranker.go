package recommend

import (
	"math"
	"sort"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/index"
)

// Config carries the tuning constants of the ranker. The blend weights and
// the fuzzy cutoff have no derivation beyond observed behavior, so they stay
// configurable rather than baked in.
type Config struct {
	SimilarityWeight     float64 // warm-path weight on cosine similarity
	PopularityWeight     float64 // warm-path weight on saturated vote count
	PopularitySaturation float64 // votes at which tanh popularity nears 0.76
	FuzzyCutoff          float64 // minimum similarity ratio for the fuzzy tier
}

func DefaultConfig() Config {
	return Config{
		SimilarityWeight:     0.9,
		PopularityWeight:     0.1,
		PopularitySaturation: 10000,
		FuzzyCutoff:          0.82,
	}
}

// Recommendation is one ranked catalog row.
type Recommendation struct {
	Title   string   `json:"title"`
	Poster  string   `json:"poster,omitempty"`
	Year    int      `json:"year,omitempty"`
	Genres  []string `json:"genres"`
	Score   float64  `json:"score"`
	Average float64  `json:"average"`
	Votes   int      `json:"votes"`
}

func toRecommendation(idx *index.Index, row int, score float64) Recommendation {
	m := idx.Row(row)
	return Recommendation{
		Title:   m.Title,
		Poster:  m.Poster,
		Year:    m.Year,
		Genres:  m.Genres,
		Score:   score,
		Average: m.Average,
		Votes:   m.Votes,
	}
}

// rank scores and orders the catalog. A nil profile takes the cold-start
// path: top-k by raw vote count, every score 0.0.
func rank(idx *index.Index, profile index.SparseVector, rated map[int]bool, k, minVotes int, cfg Config) []Recommendation {
	if k <= 0 {
		return nil
	}

	if profile == nil {
		order := make([]int, idx.Len())
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return idx.Row(order[a]).Votes > idx.Row(order[b]).Votes
		})
		if k > len(order) {
			k = len(order)
		}
		recs := make([]Recommendation, 0, k)
		for _, row := range order[:k] {
			recs = append(recs, toRecommendation(idx, row, 0.0))
		}
		return recs
	}

	scores := make([]float64, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		similarity := idx.Vector(i).Dot(profile)
		popularity := math.Tanh(float64(idx.Row(i).Votes) / cfg.PopularitySaturation)
		scores[i] = cfg.SimilarityWeight*similarity + cfg.PopularityWeight*popularity
	}

	// Already-rated rows can never come back; the optional vote floor is
	// enforced the same way.
	for row := range rated {
		scores[row] = math.Inf(-1)
	}
	if minVotes > 0 {
		for i := 0; i < idx.Len(); i++ {
			if idx.Row(i).Votes < minVotes {
				scores[i] = math.Inf(-1)
			}
		}
	}

	order := make([]int, 0, idx.Len())
	for i, s := range scores {
		if !math.IsInf(s, -1) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if k > len(order) {
		k = len(order)
	}
	recs := make([]Recommendation, 0, k)
	for _, row := range order[:k] {
		recs = append(recs, toRecommendation(idx, row, scores[row]))
	}
	return recs
}
