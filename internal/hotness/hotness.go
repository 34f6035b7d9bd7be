// Package hotness scores how far a user's take on a movie sits from the
// consensus, weighted by how much consensus there is.
package hotness

import (
	"math"
	"sort"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
)

// ScoredRating is a user rating with its hotness attached.
type ScoredRating struct {
	catalog.UserRating
	Hotness float64 `json:"hotness"`
}

// maxHotness drops degenerate outliers (usually missing metadata) from the
// ranked list.
const maxHotness = 100

// Score computes the hotness of one rating. The constants rescale the
// catalog's 0-10 averages onto the vote-count weighting used upstream.
func Score(userScore, average float64, votes int) float64 {
	weightedVotes := round2(3*math.Log10(1+float64(votes)/5000) + 7)
	weightedAverage := round2(3.57*average - 17.68)
	distance := math.Abs(userScore - weightedAverage)
	return round2(distance*6 + weightedVotes*3)
}

// Rank scores every rating, filters the outliers, and orders hottest first.
func Rank(movies []catalog.UserRating) []ScoredRating {
	scored := make([]ScoredRating, 0, len(movies))
	for _, m := range movies {
		h := Score(float64(m.UserRating), m.Average, m.Votes)
		if h > maxHotness {
			continue
		}
		scored = append(scored, ScoredRating{UserRating: m, Hotness: h})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Hotness > scored[j].Hotness
	})
	return scored
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
