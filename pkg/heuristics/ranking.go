package heuristics

import (
	"github.com/gitrdm/ddbnb/pkg/ddcore"
	"gonum.org/v1/gonum/stat"
)

// StateRanking totally orders states so the compiler can choose which nodes
// to merge or delete first during size control (spec §4.A, §4.F): "least
// promising first". Compare returns a negative number when a is less
// promising than b, zero when they rank equal, and a positive number when a
// is more promising than b — so the best-ranked state sorts last, matching
// spec §4.G ("best nodes sort last").
type StateRanking interface {
	Compare(a, b ddcore.State) int
}

// StateRankingFunc adapts a plain function to StateRanking.
type StateRankingFunc func(a, b ddcore.State) int

// Compare implements StateRanking.
func (f StateRankingFunc) Compare(a, b ddcore.State) int { return f(a, b) }

// WeightedRanking combines several numeric features of a state into a
// single composite score via a weighted mean, for problems where no single
// coordinate alone predicts promise (e.g. a knapsack state ranked on both
// remaining capacity and remaining item count). Features must return
// slices of equal, fixed length; Weights is optional and defaults to a
// uniform weighting when nil.
//
// Grounded on gonum.org/v1/gonum/stat.Mean, adopted from the
// vanderheijden86-b9s/beadwork pack entries' gonum dependency.
type WeightedRanking struct {
	Features func(ddcore.State) []float64
	Weights  []float64
}

// Compare implements StateRanking by comparing the weighted mean of each
// state's feature vector.
func (w WeightedRanking) Compare(a, b ddcore.State) int {
	sa := stat.Mean(w.Features(a), w.Weights)
	sb := stat.Mean(w.Features(b), w.Weights)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}
