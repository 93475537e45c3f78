package sample

import (
	"errors"
	"math/rand"
	"sort"
)

// Index-level resampling primitives. Every draw takes an explicit *rand.Rand
// so callers own reproducibility; nothing here touches the global generator.

// Permutation returns a random permutation of [0, n).
func Permutation(rng *rand.Rand, n int) []int {
	return rng.Perm(n)
}

// Bootstrap returns n indices drawn uniformly from [0, n) with replacement.
func Bootstrap(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out
}

// Weighted returns k indices drawn from [0, len(weights)) with replacement,
// with probability proportional to the weights. Weights must be non-negative
// and sum to a positive total.
func Weighted(rng *rand.Rand, weights []float64, k int) ([]int, error) {
	n := len(weights)
	if n == 0 {
		return nil, errors.New("empty weights")
	}

	cum := make([]float64, n)
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, errors.New("negative weight")
		}
		total += w
		cum[i] = total
	}
	if total <= 0 {
		return nil, errors.New("weights sum to zero")
	}

	out := make([]int, k)
	for i := 0; i < k; i++ {
		r := rng.Float64() * total
		idx := sort.SearchFloat64s(cum, r)
		// SearchFloat64s returns the first cum >= r; an exact hit on a
		// boundary still maps inside the slice.
		if idx >= n {
			idx = n - 1
		}
		out[i] = idx
	}
	return out, nil
}

// Split partitions [0, n) into train and test index sets by ratio, after a
// random permutation.
func Split(rng *rand.Rand, n int, testRatio float64) (train, test []int) {
	indices := rng.Perm(n)
	nTest := int(float64(n) * testRatio)
	for i, idx := range indices {
		if i < nTest {
			test = append(test, idx)
		} else {
			train = append(train, idx)
		}
	}
	return train, test
}
