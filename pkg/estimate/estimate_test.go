package estimate

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causalml/pkg/datasets"
	"causalml/pkg/do"
	"causalml/pkg/frame"
	"causalml/pkg/infer"
)

func confounded(t *testing.T, opts ...datasets.ConfoundedOption) *datasets.Dataset {
	t.Helper()
	ds, err := datasets.NewConfoundedBinary(opts...).Generate()
	require.NoError(t, err)
	return ds
}

func TestNaiveDifference(t *testing.T) {
	f, err := frame.FromColumns(
		[]string{"d", "y"},
		[]frame.Kind{frame.Binary, frame.Continuous},
		[][]float64{{0, 0, 1, 1}, {1, 3, 4, 6}},
	)
	require.NoError(t, err)

	v, err := NaiveDifference(f, "d", "y")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-12) // (4+6)/2 - (1+3)/2

	_, err = NaiveDifference(f, "missing", "y")
	assert.Error(t, err)
}

func TestNaiveDifferenceNeedsBothGroups(t *testing.T) {
	f, err := frame.FromColumns(
		[]string{"d", "y"},
		[]frame.Kind{frame.Binary, frame.Continuous},
		[][]float64{{1, 1, 1}, {1, 2, 3}},
	)
	require.NoError(t, err)
	_, err = NaiveDifference(f, "d", "y")
	assert.ErrorIs(t, err, ErrMissingGroup)
}

// IPW must strip the planted confounding that the naive contrast
// absorbs.
func TestIPWDebiases(t *testing.T) {
	ds := confounded(t, datasets.WithSeed(42))

	naive, err := NaiveDifference(ds.Frame, ds.Treatment, ds.Outcome)
	require.NoError(t, err)
	require.Greater(t, naive, ds.Truth.ATE+0.2)

	v, err := IPW(ds.Frame, ds.Treatment, ds.Outcome, ds.CommonCauses, IPWConfig{Seed: 1})
	require.NoError(t, err)
	assert.InDelta(t, ds.Truth.ATE, v, 0.2)
	assert.Less(t, math.Abs(v-ds.Truth.ATE), math.Abs(naive-ds.Truth.ATE))
}

func TestIPWEmptyBackdoorFallsBackToNaive(t *testing.T) {
	ds := confounded(t, datasets.WithN(500), datasets.WithSeed(3))
	naive, err := NaiveDifference(ds.Frame, ds.Treatment, ds.Outcome)
	require.NoError(t, err)
	v, err := IPW(ds.Frame, ds.Treatment, ds.Outcome, nil, IPWConfig{Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, naive, v)
}

func TestIPWRejectsContinuousTreatment(t *testing.T) {
	ds := confounded(t, datasets.WithN(200), datasets.WithSeed(3))
	_, err := IPW(ds.Frame, "z", ds.Outcome, []string{ds.Treatment}, IPWConfig{Seed: 1})
	assert.ErrorIs(t, err, do.ErrTreatmentNotBinary)
}

func TestFromDoSample(t *testing.T) {
	ds := confounded(t, datasets.WithSeed(42))
	m, err := infer.New(ds.Frame, ds.Treatment, ds.Outcome,
		infer.WithCommonCauses(ds.CommonCauses...))
	require.NoError(t, err)
	est, err := m.IdentifyEffect()
	require.NoError(t, err)
	s, err := do.NewWeightingSampler(m, est, do.KeepOriginalTreatment(), do.WithSamplerSeed(1))
	require.NoError(t, err)

	v, err := FromDoSample(context.Background(), s, ds.Treatment, ds.Outcome)
	require.NoError(t, err)
	assert.InDelta(t, ds.Truth.ATE, v, 0.2)
}

// On unconfounded data the naive estimator is consistent, so its
// bootstrap interval must cover the truth.
func TestBootstrapCoversTruth(t *testing.T) {
	ds := confounded(t, datasets.WithConfounding(0), datasets.WithSeed(11))

	report, err := Bootstrap("naive", Naive(ds.Treatment, ds.Outcome), ds.Frame, 200, 7)
	require.NoError(t, err)

	assert.Equal(t, "naive", report.Method)
	assert.Equal(t, 200, report.B)
	assert.Less(t, report.CILow, report.CIHigh)
	assert.LessOrEqual(t, report.CILow, ds.Truth.ATE)
	assert.GreaterOrEqual(t, report.CIHigh, ds.Truth.ATE)
	assert.Contains(t, report.String(), "95% CI")
}

func TestBootstrapValidation(t *testing.T) {
	ds := confounded(t, datasets.WithN(100), datasets.WithSeed(1))
	_, err := Bootstrap("naive", Naive(ds.Treatment, ds.Outcome), ds.Frame, 0, 1)
	assert.Error(t, err)
}

// A permuted treatment causes nothing, so the placebo estimate must sit
// near zero even though the real estimate is far from it.
func TestPlaceboTreatment(t *testing.T) {
	ds := confounded(t, datasets.WithSeed(42))

	ref, err := PlaceboTreatment(Naive(ds.Treatment, ds.Outcome), ds.Frame, ds.Treatment, 5)
	require.NoError(t, err)

	assert.Greater(t, ref.Original, 1.0)
	assert.InDelta(t, 0, ref.Refuted, 0.1)
}

func TestSubsetStability(t *testing.T) {
	ds := confounded(t, datasets.WithSeed(42))

	est := Naive(ds.Treatment, ds.Outcome)
	ref, err := SubsetStability(est, ds.Frame, 0.8, 8, 5)
	require.NoError(t, err)
	assert.InDelta(t, ref.Original, ref.Refuted, 0.1)

	_, err = SubsetStability(est, ds.Frame, 1.5, 8, 5)
	assert.Error(t, err)
	_, err = SubsetStability(est, ds.Frame, 0.8, 0, 5)
	assert.Error(t, err)
}
