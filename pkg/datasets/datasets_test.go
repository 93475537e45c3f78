package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causalml/pkg/frame"
	"causalml/pkg/stats"
)

func TestConfoundedBinaryShape(t *testing.T) {
	ds, err := NewConfoundedBinary(WithN(2000), WithSeed(11)).Generate()
	require.NoError(t, err)

	f := ds.Frame
	assert.Equal(t, 2000, f.Rows())
	assert.Equal(t, []string{"z", "d", "y"}, f.Names())

	k, _ := f.KindOf("d")
	assert.Equal(t, frame.Binary, k)

	d, _ := f.Column("d")
	for _, v := range d {
		assert.True(t, v == 0 || v == 1)
	}

	z, _ := f.Column("z")
	lo, hi := stats.MinMax(z)
	assert.GreaterOrEqual(t, lo, 0.0)
	assert.LessOrEqual(t, hi, 1.0)

	assert.Equal(t, 1.0, ds.Truth.ATE)
	assert.Equal(t, []string{"z"}, ds.CommonCauses)
}

func TestConfoundedBinaryIsDeterministic(t *testing.T) {
	a, err := NewConfoundedBinary(WithN(100), WithSeed(3)).Generate()
	require.NoError(t, err)
	b, err := NewConfoundedBinary(WithN(100), WithSeed(3)).Generate()
	require.NoError(t, err)

	ya, _ := a.Frame.Column("y")
	yb, _ := b.Frame.Column("y")
	assert.Equal(t, ya, yb)
}

// Confounding must actually confound: treated rows should carry visibly
// larger z than control rows.
func TestConfoundedBinaryInducesImbalance(t *testing.T) {
	ds, err := NewConfoundedBinary(WithN(5000), WithSeed(5)).Generate()
	require.NoError(t, err)

	z, _ := ds.Frame.Column("z")
	d, _ := ds.Frame.Column("d")
	groups := stats.GroupMeans(z, d)
	assert.Greater(t, groups[1]-groups[0], 0.15)
}

func TestConfoundedGraph(t *testing.T) {
	g := NewConfoundedBinary()
	dag, err := g.Graph()
	require.NoError(t, err)
	require.True(t, dag.Frozen())

	cc, err := dag.CommonCauses("d", "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, cc)
}

func TestLinearShape(t *testing.T) {
	g := NewLinear()
	g.N = 500
	g.NumCommonCauses = 2
	g.Seed = 9
	ds, err := g.Generate()
	require.NoError(t, err)

	assert.Equal(t, []string{"w0", "w1", "d", "y"}, ds.Frame.Names())
	assert.Equal(t, []string{"w0", "w1"}, ds.CommonCauses)
	assert.Equal(t, 500, ds.Frame.Rows())
}

func TestLinearSlopeValidation(t *testing.T) {
	g := NewLinear()
	g.Slopes = []float64{1}
	g.NumCommonCauses = 3
	_, err := g.Generate()
	assert.Error(t, err)
}

func TestLinearWithInstruments(t *testing.T) {
	g := NewLinear()
	g.N = 4000
	g.NumCommonCauses = 1
	g.NumInstruments = 1
	g.Seed = 13
	ds, err := g.Generate()
	require.NoError(t, err)

	assert.Equal(t, []string{"w0", "i0", "d", "y"}, ds.Frame.Names())
	assert.Equal(t, []string{"i0"}, ds.Instruments)

	// The instrument must move the treatment but not the outcome except
	// through it: i correlates with d, and with y only weakly once the
	// d channel is the only route.
	i0, _ := ds.Frame.Column("i0")
	d, _ := ds.Frame.Column("d")
	assert.Greater(t, stats.Correlation(i0, d), 0.2)
}
