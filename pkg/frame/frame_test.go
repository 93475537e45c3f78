package frame

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := FromColumns(
		[]string{"z", "d", "y"},
		[]Kind{Continuous, Binary, Continuous},
		[][]float64{
			{0.1, 0.9, 0.5},
			{0, 1, 1},
			{0.3, 2.9, 1.6},
		},
	)
	require.NoError(t, err)
	return f
}

func TestAddColumnValidation(t *testing.T) {
	f := testFrame(t)

	err := f.AddColumn("z", Continuous, []float64{1, 2, 3})
	assert.Error(t, err, "duplicate name must be rejected")

	err = f.AddColumn("w", Continuous, []float64{1, 2})
	assert.Error(t, err, "length mismatch must be rejected")

	err = f.AddColumn("w", Continuous, []float64{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, 4, f.Cols())
}

func TestColumnCopyVsView(t *testing.T) {
	f := testFrame(t)

	cp, err := f.Column("d")
	require.NoError(t, err)
	cp[0] = 99

	view, err := f.ColumnView("d")
	require.NoError(t, err)
	assert.Equal(t, 0.0, view[0], "Column must return a copy")

	view[0] = 1
	again, _ := f.Column("d")
	assert.Equal(t, 1.0, again[0], "ColumnView must alias the frame")
}

func TestKindOfAndNames(t *testing.T) {
	f := testFrame(t)
	assert.Equal(t, []string{"z", "d", "y"}, f.Names())

	k, err := f.KindOf("d")
	require.NoError(t, err)
	assert.Equal(t, Binary, k)

	_, err = f.KindOf("nope")
	assert.Error(t, err)
}

func TestSelectAndTakeRows(t *testing.T) {
	f := testFrame(t)

	sub, err := f.Select("y", "z")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, sub.Names())
	y, _ := sub.Column("y")
	assert.Equal(t, []float64{0.3, 2.9, 1.6}, y)

	taken, err := f.TakeRows([]int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, taken.Rows())
	z, _ := taken.Column("z")
	assert.Equal(t, []float64{0.5, 0.1, 0.5}, z)

	_, err = f.TakeRows([]int{3})
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	f := testFrame(t)
	c := f.Clone()
	v, _ := c.ColumnView("y")
	v[0] = -1

	orig, _ := f.Column("y")
	assert.Equal(t, 0.3, orig[0])
}

func TestMatrix(t *testing.T) {
	f := testFrame(t)
	m, err := f.Matrix("z", "d")
	require.NoError(t, err)
	assert.Equal(t, 3, m.R)
	assert.Equal(t, 2, m.C)
	assert.Equal(t, 0.9, m.At(1, 0))
	assert.Equal(t, 1.0, m.At(1, 1))
}

func TestReadCSVInference(t *testing.T) {
	in := strings.NewReader("z,d,city\n0.1,0,paris\n0.7,1,rome\n,1,paris\n")
	f, err := ReadCSV(in)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Rows())

	k, _ := f.KindOf("z")
	assert.Equal(t, Continuous, k)
	k, _ = f.KindOf("d")
	assert.Equal(t, Binary, k)
	k, _ = f.KindOf("city")
	assert.Equal(t, Categorical, k)

	z, _ := f.Column("z")
	assert.True(t, math.IsNaN(z[2]), "missing cell must read as NaN")

	city, _ := f.Column("city")
	assert.Equal(t, []float64{0, 1, 0}, city, "labels encode in order of first appearance")
}

func TestCSVRoundTrip(t *testing.T) {
	f := testFrame(t)
	var b strings.Builder
	require.NoError(t, WriteCSV(&b, f))

	back, err := ReadCSV(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, f.Names(), back.Names())

	y, _ := back.Column("y")
	assert.InDeltaSlice(t, []float64{0.3, 2.9, 1.6}, y, 1e-12)

	k, _ := back.KindOf("d")
	assert.Equal(t, Binary, k)
}
