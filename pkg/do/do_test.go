package do

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causalml/pkg/datasets"
	"causalml/pkg/frame"
	"causalml/pkg/infer"
	"causalml/pkg/stats"
)

func confoundedModel(t *testing.T, opts ...datasets.ConfoundedOption) (*infer.Model, *infer.Estimand, *datasets.Dataset) {
	t.Helper()
	ds, err := datasets.NewConfoundedBinary(opts...).Generate()
	require.NoError(t, err)
	m, err := infer.New(ds.Frame, ds.Treatment, ds.Outcome,
		infer.WithCommonCauses(ds.CommonCauses...))
	require.NoError(t, err)
	est, err := m.IdentifyEffect()
	require.NoError(t, err)
	return m, est, ds
}

func contrast(t *testing.T, f *frame.Frame, treatment, outcome string) float64 {
	t.Helper()
	d, err := f.ColumnView(treatment)
	require.NoError(t, err)
	y, err := f.ColumnView(outcome)
	require.NoError(t, err)
	means := stats.GroupMeans(y, d)
	return means[1] - means[0]
}

// On confounded data the raw contrast overstates the effect; the
// contrast on a weighting do-sample must land near the truth and
// strictly closer than the naive one.
func TestWeightingSamplerDebiases(t *testing.T) {
	m, est, ds := confoundedModel(t, datasets.WithSeed(42))

	naive := contrast(t, ds.Frame, ds.Treatment, ds.Outcome)
	require.Greater(t, naive, ds.Truth.ATE+0.2, "generator must plant visible confounding")

	s, err := NewWeightingSampler(m, est, KeepOriginalTreatment(), WithSamplerSeed(1))
	require.NoError(t, err)
	out, err := s.Sample(context.Background(), nil)
	require.NoError(t, err)

	corrected := contrast(t, out, ds.Treatment, ds.Outcome)
	assert.InDelta(t, ds.Truth.ATE, corrected, 0.2)
	assert.Less(t, math.Abs(corrected-ds.Truth.ATE), math.Abs(naive-ds.Truth.ATE))
}

func TestWeightingSamplerEmitsDiagnostics(t *testing.T) {
	m, est, ds := confoundedModel(t, datasets.WithN(800), datasets.WithSeed(5))

	s, err := NewWeightingSampler(m, est, KeepOriginalTreatment(), WithSamplerSeed(2))
	require.NoError(t, err)
	out, err := s.Sample(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, out.Has(PropensityColumn))
	assert.True(t, out.Has(WeightColumn))
	assert.Len(t, s.PropensityScores(), ds.Frame.Rows())
	assert.Len(t, s.Weights(), ds.Frame.Rows())
	for _, p := range s.PropensityScores() {
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	}
	assert.Equal(t, ds.Frame.Rows(), out.Rows())
}

func TestWeightingSamplerForcedIntervention(t *testing.T) {
	m, _, ds := confoundedModel(t, datasets.WithN(800), datasets.WithSeed(5))
	est, err := m.IdentifyEffect()
	require.NoError(t, err)

	s, err := NewWeightingSampler(m, est, WithSamplerSeed(2))
	require.NoError(t, err)
	out, err := s.Sample(context.Background(), &Intervention{Variable: ds.Treatment, Value: 1})
	require.NoError(t, err)

	d, err := out.ColumnView(ds.Treatment)
	require.NoError(t, err)
	for _, v := range d {
		require.Equal(t, 1.0, v)
	}
}

func TestWeightingSamplerSampleSize(t *testing.T) {
	m, est, _ := confoundedModel(t, datasets.WithN(500), datasets.WithSeed(9))
	s, err := NewWeightingSampler(m, est, KeepOriginalTreatment(), WithSampleSize(120), WithSamplerSeed(3))
	require.NoError(t, err)
	out, err := s.Sample(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 120, out.Rows())
}

func TestWeightingSamplerValidation(t *testing.T) {
	m, est, ds := confoundedModel(t, datasets.WithN(200), datasets.WithSeed(4))

	t.Run("continuous treatment rejected", func(t *testing.T) {
		// Treat the confounder as the treatment: it is continuous.
		cm, err := infer.New(ds.Frame, "z", ds.Outcome)
		require.NoError(t, err)
		cEst, err := cm.IdentifyEffect()
		require.NoError(t, err)
		_, err = NewWeightingSampler(cm, cEst)
		assert.ErrorIs(t, err, ErrTreatmentNotBinary)
	})

	t.Run("single treatment level rejected", func(t *testing.T) {
		// Everyone treated: there is no control group to reweight
		// against, so construction must fail rather than resample.
		f, err := frame.FromColumns(
			[]string{"z", "d", "y"},
			[]frame.Kind{frame.Continuous, frame.Binary, frame.Continuous},
			[][]float64{
				{0.1, 0.4, 0.7, 0.9},
				{1, 1, 1, 1},
				{1.2, 1.8, 2.4, 2.9},
			},
		)
		require.NoError(t, err)
		tm, err := infer.New(f, "d", "y", infer.WithCommonCauses("z"))
		require.NoError(t, err)
		tEst, err := tm.IdentifyEffect()
		require.NoError(t, err)
		_, err = NewWeightingSampler(tm, tEst)
		assert.ErrorIs(t, err, ErrTreatmentLevelMissing)
	})

	t.Run("mismatched estimand rejected", func(t *testing.T) {
		other := &infer.Estimand{Treatment: "z", Outcome: ds.Outcome}
		_, err := NewWeightingSampler(m, other)
		assert.Error(t, err)
	})

	t.Run("intervention on wrong variable", func(t *testing.T) {
		s, err := NewWeightingSampler(m, est, WithSamplerSeed(1))
		require.NoError(t, err)
		_, err = s.Sample(context.Background(), &Intervention{Variable: "z", Value: 1})
		assert.Error(t, err)
	})

	t.Run("non-binary intervention value", func(t *testing.T) {
		s, err := NewWeightingSampler(m, est, WithSamplerSeed(1))
		require.NoError(t, err)
		_, err = s.Sample(context.Background(), &Intervention{Variable: ds.Treatment, Value: 0.5})
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s, err := NewWeightingSampler(m, est, WithSamplerSeed(1))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = s.Sample(ctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// G-computation regresses the outcome on treatment and backdoor set;
// the planted effect is linear, so the treatment coefficient and the
// do(1) vs do(0) contrast must both recover it.
func TestGComputationRecoversEffect(t *testing.T) {
	m, est, ds := confoundedModel(t, datasets.WithSeed(42))

	s, err := NewGComputationSampler(m, est, WithGCompSeed(1))
	require.NoError(t, err)

	ctx := context.Background()
	treated, err := s.Sample(ctx, &Intervention{Variable: ds.Treatment, Value: 1})
	require.NoError(t, err)
	control, err := s.Sample(ctx, &Intervention{Variable: ds.Treatment, Value: 0})
	require.NoError(t, err)

	yt, err := treated.ColumnView(ds.Outcome)
	require.NoError(t, err)
	yc, err := control.ColumnView(ds.Outcome)
	require.NoError(t, err)
	assert.InDelta(t, ds.Truth.ATE, stats.Mean(yt)-stats.Mean(yc), 0.1)

	coef := s.Coefficients()
	require.Len(t, coef, 3) // intercept, treatment, confounder
	assert.InDelta(t, ds.Truth.ATE, coef[1], 0.05)
}

func TestGComputationKeepsDispersion(t *testing.T) {
	m, est, ds := confoundedModel(t, datasets.WithSeed(8), datasets.WithNoise(0.5))

	s, err := NewGComputationSampler(m, est, WithGCompSeed(2))
	require.NoError(t, err)
	out, err := s.Sample(context.Background(), nil)
	require.NoError(t, err)

	y, err := out.ColumnView(ds.Outcome)
	require.NoError(t, err)
	// Residual bootstrap must keep the outcome spread in the same
	// ballpark as the source data, not collapse it to the fitted line.
	src, err := ds.Frame.ColumnView(ds.Outcome)
	require.NoError(t, err)
	assert.InDelta(t, stats.Std(src), stats.Std(y), 0.2)
}

func TestSamplersPreserveColumnOrder(t *testing.T) {
	m, est, ds := confoundedModel(t, datasets.WithN(300), datasets.WithSeed(6))

	g, err := NewGComputationSampler(m, est, WithGCompSeed(1))
	require.NoError(t, err)
	out, err := g.Sample(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ds.Frame.Names(), out.Names())

	w, err := NewWeightingSampler(m, est, KeepOriginalTreatment(), WithSamplerSeed(1))
	require.NoError(t, err)
	out, err = w.Sample(context.Background(), nil)
	require.NoError(t, err)
	// The weighting sampler appends its diagnostic columns after the
	// source columns.
	assert.Equal(t, append(ds.Frame.Names(), PropensityColumn, WeightColumn), out.Names())
}
