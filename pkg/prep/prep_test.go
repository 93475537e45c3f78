package prep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causalml/pkg/frame"
)

func nanFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns(
		[]string{"z", "d"},
		[]frame.Kind{frame.Continuous, frame.Binary},
		[][]float64{
			{1, 2, math.NaN(), 3},
			{0, 1, 1, 0},
		},
	)
	require.NoError(t, err)
	return f
}

func TestImputeMean(t *testing.T) {
	f := nanFrame(t)
	reports, err := ImputeMean(f, "z")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "z", reports[0].Column)
	assert.Equal(t, 1, reports[0].Filled)

	z, _ := f.Column("z")
	assert.InDelta(t, 2.0, z[2], 1e-12, "mean of 1,2,3")
}

func TestImputeMedianSkewed(t *testing.T) {
	f, err := frame.FromColumns(
		[]string{"x"},
		[]frame.Kind{frame.Continuous},
		[][]float64{{1, 1, 2, 100, math.NaN()}},
	)
	require.NoError(t, err)

	reports, err := ImputeMedian(f)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	x, _ := f.Column("x")
	assert.InDelta(t, 1.5, x[4], 1e-12)
}

func TestImputeAutoSkipsComplete(t *testing.T) {
	f := nanFrame(t)
	reports, err := Impute(f)
	require.NoError(t, err)
	require.Len(t, reports, 1, "only the column with NaN gets a report")
	assert.Equal(t, "z", reports[0].Column)
}

func TestDropMissingRows(t *testing.T) {
	f := nanFrame(t)
	out, dropped, err := DropMissingRows(f)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 3, out.Rows())

	z, _ := out.Column("z")
	assert.Equal(t, []float64{1, 2, 3}, z)
}

func TestStandardScalerContinuousOnly(t *testing.T) {
	f, err := frame.FromColumns(
		[]string{"z", "d"},
		[]frame.Kind{frame.Continuous, frame.Binary},
		[][]float64{
			{2, 4, 4, 4, 5, 5, 7, 9},
			{0, 1, 0, 1, 0, 1, 0, 1},
		},
	)
	require.NoError(t, err)

	s := NewStandardScaler()
	out, err := s.FitTransform(f)
	require.NoError(t, err)

	z, _ := out.Column("z")
	assert.InDelta(t, (2.0-5.0)/2.0, z[0], 1e-12)

	d, _ := out.Column("d")
	assert.Equal(t, []float64{0, 1, 0, 1, 0, 1, 0, 1}, d, "binary column untouched")

	// the source frame stays as it was
	orig, _ := f.Column("z")
	assert.Equal(t, 2.0, orig[0])
}

func TestScalerUnfitted(t *testing.T) {
	s := NewStandardScaler()
	_, err := s.Transform(nanFrame(t))
	assert.Error(t, err)
}

func TestPipeline(t *testing.T) {
	f, err := frame.FromColumns(
		[]string{"z"},
		[]frame.Kind{frame.Continuous},
		[][]float64{{10, 20, 30}},
	)
	require.NoError(t, err)

	p := NewPipeline(NewStandardScaler("z"))
	out, err := p.FitTransform(f)
	require.NoError(t, err)

	z, _ := out.Column("z")
	assert.InDelta(t, 0, z[0]+z[1]+z[2], 1e-9, "standardized column sums to zero")
}
