package index

import "math"

// SparseVector maps feature columns to weights. Catalog rows are sparse
// (a handful of terms out of a large vocabulary), so a map beats a dense
// slice by orders of magnitude in memory.
type SparseVector map[int]float64

// Dot iterates the smaller operand.
func (v SparseVector) Dot(o SparseVector) float64 {
	if len(o) < len(v) {
		v, o = o, v
	}
	var sum float64
	for i, val := range v {
		sum += val * o[i]
	}
	return sum
}

// AddScaled accumulates w*o into v.
func (v SparseVector) AddScaled(o SparseVector, w float64) {
	for i, val := range o {
		v[i] += w * val
	}
}

func (v SparseVector) Norm() float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}

func (v SparseVector) Scale(s float64) {
	for i := range v {
		v[i] *= s
	}
}
