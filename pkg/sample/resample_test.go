package sample

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermutationIsBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := Permutation(rng, 100)
	require.Len(t, p, 100)
	seen := make(map[int]bool, 100)
	for _, idx := range p {
		assert.False(t, seen[idx], "index repeated")
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 100)
		seen[idx] = true
	}
}

func TestBootstrapRange(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	idx := Bootstrap(rng, 50)
	require.Len(t, idx, 50)
	for _, i := range idx {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 50)
	}
}

func TestWeightedFrequencies(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	// Index 1 carries 3x the weight of index 0; index 2 is never drawn.
	idx, err := Weighted(rng, []float64{1, 3, 0}, 40000)
	require.NoError(t, err)

	counts := make([]int, 3)
	for _, i := range idx {
		counts[i]++
	}
	assert.Zero(t, counts[2], "zero-weight index must never be drawn")
	ratio := float64(counts[1]) / float64(counts[0])
	assert.InDelta(t, 3.0, ratio, 0.25)
}

func TestWeightedErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	_, err := Weighted(rng, nil, 1)
	assert.Error(t, err)

	_, err = Weighted(rng, []float64{0, 0}, 1)
	assert.Error(t, err)

	_, err = Weighted(rng, []float64{1, -1}, 1)
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	train, test := Split(rng, 10, 0.3)
	assert.Len(t, test, 3)
	assert.Len(t, train, 7)

	all := make(map[int]bool)
	for _, i := range append(append([]int{}, train...), test...) {
		all[i] = true
	}
	assert.Len(t, all, 10, "split must cover every index exactly once")
}
