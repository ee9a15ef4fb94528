package cluster

import (
	"math"

	"gorgonia.org/vecf32"
)

// DefaultMaxIterations bounds the refinement of receptive field clustering.
const DefaultMaxIterations = 1000

// FromWeights turns every hidden unit of a (visible+1) x (hidden+1) weight
// matrix into a data point: the column of weights from the visible units into
// that hidden unit, min-max normalised to [0, 1]. The bias row and column are
// left out. The point's ID is the hidden unit's index.
func FromWeights(w [][]float32) []*DataPoint {
	if len(w) < 2 || len(w[0]) < 2 {
		return nil
	}
	visible, hidden := len(w)-1, len(w[0])-1
	retVal := make([]*DataPoint, 0, hidden)
	for j := 0; j < hidden; j++ {
		field := make([]float32, visible)
		for i := range field {
			field[i] = w[i][j]
		}
		Normalize(field)
		retVal = append(retVal, NewDataPoint(field, j))
	}
	return retVal
}

// Normalize rescales a in place so its minimum is 0 and its maximum is 1. A
// constant vector becomes all zeros.
func Normalize(a []float32) {
	if len(a) == 0 {
		return
	}
	lo, hi := vecf32.MinOf(a), vecf32.MaxOf(a)
	if hi == lo {
		for i := range a {
			a[i] = 0
		}
		return
	}
	vecf32.Trans(a, -lo)
	vecf32.ScaleInv(a, hi-lo)
}

// SuggestK is the cluster count used for n receptive fields: floor(sqrt(n/2)),
// at least 1.
func SuggestK(n int) int {
	k := int(math.Sqrt(float64(n) / 2))
	if k < 1 {
		return 1
	}
	return k
}
