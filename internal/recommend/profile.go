package recommend

import (
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/index"
)

// ratingWeights maps ratings to [-1, 1]. The scale is not declared upstream:
// a set whose maximum is at most 5 is read as 0-5, anything else as 0-10.
// A rating at the midpoint contributes nothing, top of scale +1, zero -1.
func ratingWeights(matched []catalog.UserRating) []float64 {
	maxRating := 0
	for _, m := range matched {
		if m.UserRating > maxRating {
			maxRating = m.UserRating
		}
	}
	scaleMax := 10.0
	if maxRating <= 5 {
		scaleMax = 5.0
	}
	mid := scaleMax / 2

	weights := make([]float64, len(matched))
	for i, m := range matched {
		weights[i] = (float64(m.UserRating) - mid) / mid
	}
	return weights
}

// buildProfile sums weight*rowVector over the matched rows and L2-normalizes
// the result. A zero-magnitude sum is returned as-is: downstream scoring then
// ranks every row equally instead of failing. No matched rows means no
// profile, which is the cold-start trigger.
func buildProfile(idx *index.Index, rows []int, weights []float64) (index.SparseVector, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	profile := make(index.SparseVector)
	for i, row := range rows {
		profile.AddScaled(idx.Vector(row), weights[i])
	}
	if norm := profile.Norm(); norm > 0 {
		profile.Scale(1 / norm)
	}
	return profile, true
}
